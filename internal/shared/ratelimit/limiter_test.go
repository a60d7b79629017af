package ratelimit

import (
	"testing"
	"time"
)

func TestCheckAllowsUpToMaxPerWindow(t *testing.T) {
	current := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(func() time.Time { return current })

	for i := 0; i < 5; i++ {
		ok, _ := l.Check("resume|u1", 5, time.Minute)
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, retryAfter := l.Check("resume|u1", 5, time.Minute)
	if ok {
		t.Fatalf("sixth request within window should be rejected")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Fatalf("unexpected retryAfter %v", retryAfter)
	}
}

func TestCheckResetsAfterWindow(t *testing.T) {
	current := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(func() time.Time { return current })

	for i := 0; i < 5; i++ {
		l.Check("resume|u1", 5, time.Minute)
	}
	if ok, _ := l.Check("resume|u1", 5, time.Minute); ok {
		t.Fatalf("expected rejection before window reset")
	}

	current = current.Add(time.Minute)
	if ok, _ := l.Check("resume|u1", 5, time.Minute); !ok {
		t.Fatalf("expected allowance after window reset")
	}
}

func TestCheckBucketsAreIndependent(t *testing.T) {
	current := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(func() time.Time { return current })

	for i := 0; i < 5; i++ {
		l.Check("resume|u1", 5, time.Minute)
	}
	if ok, _ := l.Check("cover_letter|u1", 5, time.Minute); !ok {
		t.Fatalf("different kind bucket should not share the window")
	}
	if ok, _ := l.Check("resume|u2", 5, time.Minute); !ok {
		t.Fatalf("different user bucket should not share the window")
	}
}

func TestCheckZeroMaxDisablesLimiting(t *testing.T) {
	l := NewLimiter(nil)
	for i := 0; i < 100; i++ {
		if ok, _ := l.Check("any", 0, time.Minute); !ok {
			t.Fatalf("limiting should be disabled when max <= 0")
		}
	}
}
