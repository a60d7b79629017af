package jobs

import "errors"

var (
	// ErrNotFound indicates a job record was not found.
	ErrNotFound = errors.New("not found")
)
