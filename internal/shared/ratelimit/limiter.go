package ratelimit

import (
	"sync"
	"time"
)

// Limiter enforces fixed-window request limits per bucket key.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

// NewLimiter constructs a Limiter. A nil now func defaults to time.Now.
func NewLimiter(now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		windows: make(map[string]*window),
		now:     now,
	}
}

// Check records one request against the bucket and reports whether it is
// allowed. When rejected, retryAfter is the time until the window resets.
func (l *Limiter) Check(bucket string, max int, windowSize time.Duration) (bool, time.Duration) {
	if l == nil || max <= 0 || windowSize <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[bucket]
	if !ok || now.Sub(w.start) >= windowSize {
		l.windows[bucket] = &window{start: now, count: 1}
		return true, 0
	}
	if w.count < max {
		w.count++
		return true, 0
	}
	retryAfter := w.start.Add(windowSize).Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return false, retryAfter
}
