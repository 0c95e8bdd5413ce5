package github

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// searchRateLimit is the authenticated search API quota (30/minute).
	searchRateLimit = 30

	// proactiveRate keeps us just under the search quota.
	proactiveRate = 0.45

	// minBuffer is how many requests we keep in reserve before waiting for reset.
	minBuffer = 2

	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
)

// RateLimiter throttles requests with a token bucket and additionally waits
// for the quota reset once GitHub reports we are nearly out of requests.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	resetTime time.Time
	bucket    *rate.Limiter
	minBuffer int
}

// NewRateLimiter returns a limiter tuned for the search API.
func NewRateLimiter() *RateLimiter {
	return newRateLimiter(rate.Limit(proactiveRate), 3)
}

func newRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		remaining: searchRateLimit,
		limit:     searchRateLimit,
		bucket:    rate.NewLimiter(r, burst),
		minBuffer: minBuffer,
	}
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	remaining, resetTime := r.quota()
	if remaining < r.minBuffer && time.Now().Before(resetTime) {
		log.Printf("[GitHub Client] %d search requests left; waiting until %s", remaining, resetTime.Format(time.RFC3339))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(resetTime)):
		}
	}
	return nil
}

// UpdateFromResponse records the quota headers of resp.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, err := strconv.Atoi(resp.Header.Get(headerRateRemaining)); err == nil {
		r.remaining = v
	}
	if v, err := strconv.Atoi(resp.Header.Get(headerRateLimit)); err == nil {
		r.limit = v
	}
	if v, err := strconv.ParseInt(resp.Header.Get(headerRateReset), 10, 64); err == nil {
		r.resetTime = time.Unix(v, 0)
	}
}

// Limit returns the last reported quota.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

func (r *RateLimiter) quota() (remaining int, resetAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining, r.resetTime
}
