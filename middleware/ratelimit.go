package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/shopline/shop-api/logger"
)

const rateLimitPeriod = time.Minute

// Limiter decides whether one more request from key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed one-minute window shared by every instance using the same redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
}

func NewRedisLimiter(client *redis.Client, perMinute int) *RedisLimiter {
	return &RedisLimiter{client: client, limit: int64(perMinute)}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := "rate_limit:" + key
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, err
	}
	// First hit of the window starts its expiry.
	if count == 1 {
		if err := l.client.Expire(ctx, k, rateLimitPeriod).Err(); err != nil {
			return true, err
		}
	}
	return count <= l.limit, nil
}

// LocalLimiter is a per-process token bucket per key.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewLocalLimiter(perMinute int) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(rateLimitPeriod / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow(), nil
}

// Cleanup drops every bucket once the map grows past a bound.
func (l *LocalLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.limiters) > 10000 {
		l.limiters = make(map[string]*rate.Limiter)
	}
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (l *LocalLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup()
			}
		}
	}()
}

// RateLimit applies l per client IP. A nil limiter disables the check, and a
// limiter error lets the request through.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		allowed, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.FromContext(c).WithError(err).Warn("rate limiter unavailable")
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
