package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/nbhive/nbhive/pkg/logger"
	"github.com/nbhive/nbhive/pkg/metrics"
)

// RedisRateLimitMiddleware enforces a fixed-window per-client-IP limit
// backed by Redis so the count is shared across replicas. Falls back to the
// in-memory token bucket when no client is configured.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		logger.Warn("redis rate limiter requested without a client, using in-memory limiter")
		return RateLimitMiddleware(rps, burst)
	}
	if window <= 0 {
		window = time.Second
	}
	// requests permitted per window: sustained rate plus the burst allowance
	max := int64(rps*window.Seconds()) + int64(burst)
	if max < 1 {
		max = 1
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		bucket := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("rl:ip:%s:%d", ip, bucket)

		ctx := c.Request.Context()
		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			// fail open: a Redis outage must not block imports
			logger.Errorf("rate limiter redis error: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, window)
		}
		if count > max {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
