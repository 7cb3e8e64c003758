package storefront

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces storefront requests with a token bucket and, after a
// 429, refuses every request until the server's Retry-After has passed.
type RateLimiter struct {
	limiter *rate.Limiter

	mu           sync.Mutex
	blockedUntil time.Time
	nowFunc      func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a rate limiter allowing perSecond requests with
// the given burst. perSecond <= 0 disables pacing.
func NewRateLimiter(perSecond float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	r := &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wait blocks until a request may be sent. While blocked by a previous 429
// it returns a *RateLimitError carrying the remaining wait.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if remaining := r.Remaining(); remaining > 0 {
		return &RateLimitError{RetryAfter: remaining}
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// Block refuses requests for d.
func (r *RateLimiter) Block(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until := r.nowFunc().Add(d)
	if until.After(r.blockedUntil) {
		r.blockedUntil = until
	}
}

// Remaining returns how long requests stay blocked.
func (r *RateLimiter) Remaining() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.blockedUntil.Sub(r.nowFunc())
	if d < 0 {
		return 0
	}
	return d
}
