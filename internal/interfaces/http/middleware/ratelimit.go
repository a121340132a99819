package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/erp/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key. A bucket holds limit
// tokens and refills at limit per window.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*visitor
	limit     int
	window    time.Duration
	refill    rate.Limit
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows limit requests per window and key
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		clients: make(map[string]*visitor),
		limit:   limit,
		window:  window,
		refill:  rate.Limit(float64(limit) / window.Seconds()),
		now:     time.Now,
	}
}

// visitor returns the bucket of key; mu must be held. Buckets idle for two
// windows are full again and get dropped on the next sweep.
func (rl *RateLimiter) visitor(key string, now time.Time) *visitor {
	if now.Sub(rl.lastSweep) > rl.window {
		for k, v := range rl.clients {
			if now.Sub(v.lastSeen) > 2*rl.window {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.clients[key]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(rl.refill, rl.limit)}
		rl.clients[key] = v
	}
	v.lastSeen = now
	return v
}

// Allow takes a token from key's bucket
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	return rl.visitor(key, now).bucket.AllowN(now, 1)
}

// Remaining reports the whole tokens left for key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.clients[key]
	if !ok {
		return rl.limit
	}
	tokens := int(math.Floor(v.bucket.TokensAt(rl.now())))
	return max(0, min(tokens, rl.limit))
}

// RetryAfter is the wait for one token to come back, at least a second
func (rl *RateLimiter) RetryAfter() time.Duration {
	perToken := time.Duration(float64(rl.window) / float64(rl.limit))
	return max(perToken, time.Second)
}

// RateLimit limits requests per client IP, scoped by tenant when one is known
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		key := c.ClientIP()
		if tenantID := GetTenantID(c); tenantID != "" {
			key = tenantID + ":" + key
		} else if tenantID := c.GetHeader(TenantHeaderKey); tenantID != "" {
			key = tenantID + ":" + key
		}
		return key
	})
}

// RateLimitByKey returns a rate limiting middleware with custom key extractor
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		if !limiter.Allow(key) {
			retry := int(math.Ceil(limiter.RetryAfter().Seconds()))
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
