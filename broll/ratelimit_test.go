package broll

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(time.Hour, map[string]int{"pexels": 3})
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !limiter.Admit("pexels") {
			t.Fatalf("call %d should be admitted", i)
		}
	}
	if limiter.Admit("pexels") {
		t.Fatal("call over the limit should be rejected")
	}

	// The window slides: once the oldest stamp ages out, budget frees up.
	now = now.Add(61 * time.Minute)
	if !limiter.Admit("pexels") {
		t.Fatal("call after window expiry should be admitted")
	}
}

func TestRateLimiterUnknownProvider(t *testing.T) {
	limiter := NewRateLimiter(time.Hour, map[string]int{"pexels": 1})
	for i := 0; i < 10; i++ {
		if !limiter.Admit("unlisted") {
			t.Fatal("providers without a limit are always admitted")
		}
	}
}
