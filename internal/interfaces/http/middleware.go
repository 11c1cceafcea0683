package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userContextKey = "acting_user_id"

// identityMiddleware extracts the acting user id from the X-User-ID header,
// set by the trusted upstream that owns credential handling.
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing X-User-ID header",
			})
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid X-User-ID header",
			})
			return
		}

		c.Set(userContextKey, userID)
		c.Next()
	}
}

func actingUser(c *gin.Context) uuid.UUID {
	return c.MustGet(userContextKey).(uuid.UUID)
}

// rateLimiter is a fixed-window per-client limiter. Buckets reset when their
// window elapses; stale buckets are dropped on the way through.
type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
}

type rateBucket struct {
	count     int
	windowEnd time.Time
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{buckets: make(map[string]*rateBucket)}
}

func (r *rateLimiter) allow(key string, limit int, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	bucket, ok := r.buckets[key]
	if !ok || now.After(bucket.windowEnd) {
		r.buckets[key] = &rateBucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if bucket.count >= limit {
		return false
	}
	bucket.count++
	return true
}

func rateLimitMiddleware(limiter *rateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if key == "" || limiter.allow(key, limit, window) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{
			Success: false,
			Error:   "rate limit exceeded",
		})
	}
}
