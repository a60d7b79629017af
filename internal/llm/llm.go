package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts text-generation providers. Given a prompt and a kind
// identifier it returns text and/or a parsed structured payload, or fails.
type Client interface {
	Generate(ctx context.Context, input GenerateInput) (Result, error)
}

// GenerateInput captures one generation request to the provider.
type GenerateInput struct {
	Kind   string
	Prompt string
	Model  string
}

// Result is the provider's raw output. JSON is set when the provider
// returned a syntactically valid JSON document; Text always carries the
// raw content.
type Result struct {
	Text        string
	JSON        json.RawMessage
	Model       string
	TotalTokens int
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is the fallback when no provider is configured.
type PlaceholderClient struct{}

// Generate returns ErrNotImplemented.
func (PlaceholderClient) Generate(ctx context.Context, input GenerateInput) (Result, error) {
	_ = ctx
	_ = input
	return Result{}, ErrNotImplemented
}
