package artifacts

import "errors"

var (
	// ErrInvalidFormat indicates the capability responded but its content
	// could not be normalized into the required shape. The string is a
	// stable, user-displayable sentinel.
	ErrInvalidFormat = errors.New("Invalid AI response format")

	// ErrNoResult indicates the capability signaled it has no basis to
	// answer, distinct from a malformed response.
	ErrNoResult = errors.New("no result")
)
