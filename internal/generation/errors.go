package generation

import (
	"errors"
	"time"
)

// Stable, user-displayable error sentinels returned by the workflows.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrMissingJobID       = errors.New("missing jobId")
	ErrMissingCompanyName = errors.New("missing companyName")
	ErrMissingTitle       = errors.New("missing title")
	ErrJobOwnership       = errors.New("job does not belong to user")
)

// RateLimitedError signals the limiter rejected the request, carrying the
// caller-suggested retry delay.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return "rate limited"
}

// AIError wraps a generation-capability failure, preserving the underlying
// message verbatim for diagnosis.
type AIError struct {
	Err error
}

func (e *AIError) Error() string {
	return "AI error: " + e.Err.Error()
}

func (e *AIError) Unwrap() error {
	return e.Err
}
