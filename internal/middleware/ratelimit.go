// Package middleware provides HTTP middleware for the board server.
package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/graphboard/internal/httputil"
)

// maxBuckets caps the number of tracked client IPs.
const maxBuckets = 100_000

// Bucket eviction.
const (
	cleanupInterval = 5 * time.Minute
	bucketMaxAge    = 10 * time.Minute
)

// RateLimiter is a per-IP token bucket limiter. Tokens are fractional so a
// low rate still refills between closely spaced requests.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	burst   float64
	exempt  map[string]struct{}
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter creates a RateLimiter allowing ratePerSec sustained requests
// with the given burst. Requests whose path is listed in exempt bypass the
// limiter; the editor's health polls and the change feed upgrade use this.
// Stale buckets are evicted in the background until ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst int, exempt ...string) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    float64(ratePerSec),
		burst:   float64(burst),
		exempt:  make(map[string]struct{}, len(exempt)),
	}

	for _, p := range exempt {
		rl.exempt[p] = struct{}{}
	}

	go rl.evictStale(ctx)

	return rl
}

func (rl *RateLimiter) evictStale(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.buckets {
				if now.Sub(b.seen) > bucketMaxAge {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// take spends one token for ip. When none is available it returns how long
// until one will be.
func (rl *RateLimiter) take(ip string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok {
		if len(rl.buckets) >= maxBuckets {
			return false, time.Second
		}

		b = &bucket{tokens: rl.burst, seen: now}
		rl.buckets[ip] = b
	}

	b.tokens = math.Min(rl.burst, b.tokens+now.Sub(b.seen).Seconds()*rl.rate)
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--

		return true, 0
	}

	if rl.rate <= 0 {
		return false, time.Second
	}

	wait := time.Duration((1 - b.tokens) / rl.rate * float64(time.Second))

	return false, wait
}

// Handler returns Gin middleware that applies the limit per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := rl.exempt[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		// SetTrustedProxies(nil) in the router keeps ClientIP from honouring
		// X-Forwarded-For.
		allowed, wait := rl.take(c.ClientIP(), time.Now())
		if !allowed {
			secs := max(1, int(math.Ceil(wait.Seconds())))
			c.Header("Retry-After", strconv.Itoa(secs))
			respondError(c, http.StatusTooManyRequests, httputil.CodeRateLimited, "rate limit exceeded")

			return
		}

		c.Next()
	}
}
