package storefront

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"
)

// ErrUnauthorized is returned when the storefront rejects the session. The
// polling cycle aborts and the operator is notified.
var ErrUnauthorized = errors.New("storefront session unauthorized")

// defaultRetryAfter applies when a 429 carries no usable Retry-After.
const defaultRetryAfter = 60 * time.Second

// RateLimitError is returned when the storefront answers 429.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("storefront rate limited, retry after %s", e.RetryAfter)
}

// Seconds returns RetryAfter rounded up to whole seconds.
func (e *RateLimitError) Seconds() int {
	return int(math.Ceil(e.RetryAfter.Seconds()))
}

// parseRetryAfter reads a Retry-After header in either delta-seconds or
// HTTP-date form.
func parseRetryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return defaultRetryAfter
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return defaultRetryAfter
}
