package broll

import (
	"sync"
	"time"
)

// RateLimiter enforces a sliding hourly window of outbound search calls per
// provider. Admit records the call when it is allowed.
type RateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	limits map[string]int
	stamps map[string][]time.Time
	now    func() time.Time
}

func NewRateLimiter(window time.Duration, limits map[string]int) *RateLimiter {
	return &RateLimiter{
		window: window,
		limits: limits,
		stamps: make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Admit reports whether provider may issue another call right now. Providers
// without a configured limit are always admitted.
func (r *RateLimiter) Admit(provider string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	limit, ok := r.limits[provider]
	if !ok {
		return true
	}

	now := r.now()
	cutoff := now.Add(-r.window)

	kept := r.stamps[provider][:0]
	for _, ts := range r.stamps[provider] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	r.stamps[provider] = kept

	if len(kept) >= limit {
		return false
	}
	r.stamps[provider] = append(kept, now)
	return true
}
