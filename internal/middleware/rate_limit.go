package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is the default number of requests per minute per API token
	DefaultRateLimit = 100
	// DefaultBurstSize is the default burst size
	DefaultBurstSize = 10
	// CleanupInterval is how often idle buckets are swept
	CleanupInterval = 5 * time.Minute
	// LimiterTTL is how long an idle bucket is kept
	LimiterTTL = 10 * time.Minute
)

// routeCosts weighs endpoints that do more than a lookup. Unlisted routes cost 1.
var routeCosts = map[string]int{
	"/api/v1/reports/export": 5,
}

// RateLimiter keeps a token bucket per API token
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[uuid.UUID]*bucket
	perMinute int
	perSecond rate.Limit
	burst     int
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter with the default budget
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultRateLimit, DefaultBurstSize)
}

// NewRateLimiterWithConfig creates a RateLimiter allowing requestsPerMinute with the given burst
func NewRateLimiterWithConfig(requestsPerMinute, burstSize int) *RateLimiter {
	rl := newRateLimiter(requestsPerMinute, burstSize, time.Now)
	go rl.cleanup()
	return rl
}

func newRateLimiter(requestsPerMinute, burstSize int, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		buckets:   make(map[uuid.UUID]*bucket),
		perMinute: requestsPerMinute,
		perSecond: rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:     burstSize,
		now:       now,
		stopCh:    make(chan struct{}),
	}
}

// Allow spends one request from the token's bucket
func (r *RateLimiter) Allow(tokenID uuid.UUID) bool {
	return r.AllowN(tokenID, 1)
}

// AllowN spends cost requests at once. A cost above the burst is capped so
// heavy routes stay reachable.
func (r *RateLimiter) AllowN(tokenID uuid.UUID, cost int) bool {
	if cost > r.burst {
		cost = r.burst
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	return r.bucketFor(tokenID, now).limiter.AllowN(now, cost)
}

func (r *RateLimiter) bucketFor(tokenID uuid.UUID, now time.Time) *bucket {
	b, ok := r.buckets[tokenID]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(r.perSecond, r.burst)}
		r.buckets[tokenID] = b
	}
	b.lastSeen = now
	return b
}

// GetState reports the requests left and when the bucket will be full again
func (r *RateLimiter) GetState(tokenID uuid.UUID) (remaining int, resetTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.buckets[tokenID]
	if !ok {
		return r.burst, now
	}
	tokens := b.limiter.TokensAt(now)
	if tokens < 0 {
		tokens = 0
	}
	missing := float64(r.burst) - tokens
	refill := time.Duration(missing / float64(r.perSecond) * float64(time.Second))
	return int(tokens), now.Add(refill)
}

// Limit is the configured number of requests per minute
func (r *RateLimiter) Limit() int {
	return r.perMinute
}

// sweep drops buckets idle for longer than LimiterTTL
func (r *RateLimiter) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	removed := 0
	for id, b := range r.buckets {
		if now.Sub(b.lastSeen) > LimiterTTL {
			delete(r.buckets, id)
			removed++
		}
	}
	return removed
}

func (r *RateLimiter) cleanup() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := r.sweep(); n > 0 {
				log.Debug().Int("buckets", n).Msg("Dropped idle rate limit buckets")
			}
		case <-r.stopCh:
			return
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// RateLimitMiddleware throttles requests authenticated by API tokens.
// Session requests pass through untouched.
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenID := GetAPITokenID(c)
			if tokenID == uuid.Nil {
				return next(c)
			}

			cost := 1
			if w, ok := routeCosts[c.Path()]; ok {
				cost = w
			}
			allowed := rl.AllowN(tokenID, cost)
			remaining, resetTime := rl.GetState(tokenID)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rl.Limit()))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				retryAfter := int(resetTime.Sub(rl.now()).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				h.Set("X-RateLimit-Remaining", "0")
				h.Set("Retry-After", strconv.Itoa(retryAfter))

				log.Warn().
					Str("token_id", tokenID.String()).
					Str("route", c.Path()).
					Int("retry_after", retryAfter).
					Msg("Rate limit exceeded")

				return problem(c, http.StatusTooManyRequests, errorTypeRateLimit,
					"Too many requests. Please retry after "+strconv.Itoa(retryAfter)+" seconds.")
			}

			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			return next(c)
		}
	}
}
