package research

import "errors"

var (
	// ErrCacheMiss indicates no cache entry exists for the key.
	ErrCacheMiss = errors.New("cache miss")
)
