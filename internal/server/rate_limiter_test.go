package server

import (
	"testing"
	"time"
)

func TestRateLimiterWindowReset(t *testing.T) {
	at := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return at }

	if !limiter.Allow("1.2.3.4") || !limiter.Allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("third request in window should be rejected")
	}
	if !limiter.Allow("5.6.7.8") {
		t.Fatal("other clients should not share the counter")
	}

	at = at.Add(2 * time.Minute)
	if !limiter.Allow("1.2.3.4") {
		t.Fatal("request after window lapse should pass")
	}
}

func TestRateLimiterRejectsEmptyKey(t *testing.T) {
	limiter := newRateLimiter(10, time.Minute)
	if limiter.Allow("") {
		t.Fatal("empty key should be rejected")
	}
}

func TestRateLimiterPrunesStaleEntries(t *testing.T) {
	at := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return at }

	limiter.Allow("1.2.3.4")
	limiter.Allow("5.6.7.8")

	at = at.Add(5 * time.Minute)
	limiter.Allow("9.9.9.9")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if len(limiter.items) != 1 {
		t.Fatalf("items = %d, want 1 after prune", len(limiter.items))
	}
}
