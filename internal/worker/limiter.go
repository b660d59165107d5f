package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces calls against the generation API. The pipeline is strictly
// sequential, so a single token bucket is enough; there is no per-host
// bookkeeping.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a new rate limiter. A requestsPerSecond of 0 (or
// below) disables pacing entirely.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Wait blocks until the next request is allowed
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow checks if a request is allowed without waiting
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
