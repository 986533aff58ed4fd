package scraper

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter spaces requests at least delay apart.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter that lets one request through every delay.
// A non-positive delay disables limiting.
func NewRateLimiter(delay time.Duration) *RateLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the rate limiter allows another request.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}
