package http

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d rejected under the 60/min budget", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatalf("request 61 within the window must be rejected")
	}
	// Other clients are unaffected.
	if !rl.allow("10.0.0.2") {
		t.Fatalf("separate client must not share the budget")
	}
}

func TestRateLimiterCountsRejections(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 63; i++ {
		rl.allow("10.0.0.1")
	}
	if got := rl.rejectedTotal(); got != 3 {
		t.Fatalf("rejectedTotal: got %d, want 3", got)
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	rl.allow("10.0.0.1")
	// Age the window past a minute, then the counter starts over.
	rl.mu.Lock()
	rl.clients["10.0.0.1"].requests = 60
	rl.clients["10.0.0.1"].lastRequest = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	if !rl.allow("10.0.0.1") {
		t.Fatalf("stale window must reset the budget")
	}
}
