package http

import "time"

// rateLimiter is a per-connection sliding-window counter. It is touched only
// by the connection's read loop, so it needs no locking.
type rateLimiter struct {
	limit   int
	window  time.Duration
	counter int
	resetAt time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{limit: limit, window: window}
}

// allow counts one message against the current window.
func (r *rateLimiter) allow(now time.Time) bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	if !now.Before(r.resetAt) {
		r.counter = 0
		r.resetAt = now.Add(r.window)
	}
	r.counter++
	return r.counter <= r.limit
}
