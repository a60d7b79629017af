package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"jobsearch-backend/internal/llm"
)

const (
	apiURL = "https://api.openai.com/v1/chat/completions"
)

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate runs one chat completion. Responses are requested as JSON; if the
// provider still returns invalid JSON, one repair pass is attempted before
// handing the raw text back to the caller's normalizer.
func (c *Client) Generate(ctx context.Context, input llm.GenerateInput) (llm.Result, error) {
	model := c.model
	if strings.TrimSpace(input.Model) != "" {
		model = input.Model
	}

	content, tokens, err := c.generateOnce(ctx, model, input.Prompt)
	if err != nil {
		return llm.Result{}, err
	}
	logUsage(model, input.Kind, tokens)

	result := llm.Result{Text: content, Model: model, TotalTokens: tokens}
	if json.Valid([]byte(content)) {
		result.JSON = json.RawMessage(content)
		return result, nil
	}

	fixed, fixTokens, err := c.generateOnce(ctx, model, buildFixPrompt(content))
	if err != nil {
		// The first response is still usable text; leave repair to the caller.
		return result, nil
	}
	logUsage(model, input.Kind, fixTokens)
	result.TotalTokens += fixTokens
	if json.Valid([]byte(fixed)) {
		result.Text = fixed
		result.JSON = json.RawMessage(fixed)
	}
	return result, nil
}

func (c *Client) generateOnce(ctx context.Context, model, prompt string) (string, int, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		ResponseFormat: responseFormat{
			Type: "json_object",
		},
	}
	reqBody.Temperature = &temp
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", 0, fmt.Errorf("openai request timeout: %w", err)
		}
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", 0, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", 0, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", 0, fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", 0, fmt.Errorf("openai response empty content")
	}
	tokens := 0
	if parsed.Usage != nil {
		tokens = parsed.Usage.TotalTokens
	}
	return content, tokens, nil
}

func buildFixPrompt(raw string) string {
	return "The following text was supposed to be a single valid JSON object but is malformed. " +
		"Return the corrected JSON object only, with no markdown fences and no commentary.\n\n" + raw
}

func logUsage(model, kind string, totalTokens int) {
	if totalTokens == 0 {
		log.Printf("llm response model=%s kind=%s", model, kind)
		return
	}
	log.Printf("llm response model=%s kind=%s total_tokens=%d", model, kind, totalTokens)
}

var _ llm.Client = (*Client)(nil)
