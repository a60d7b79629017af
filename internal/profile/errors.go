package profile

import "errors"

var (
	// ErrNotFound indicates no profile exists for the user.
	ErrNotFound = errors.New("not found")
)
