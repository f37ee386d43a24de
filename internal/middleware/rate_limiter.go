package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/animehub/backend/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter caps requests per client IP with a fixed-window counter in
// redis. When redis is unreachable the limiter fails open: serving traffic
// matters more than throttling it.
func RateLimiter(redisClient *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("WARN: rate limiter unavailable, failing open: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := redisClient.Expire(ctx, key, cfg.RateLimitDuration).Err(); err != nil {
				log.Printf("WARN: rate limiter could not set window expiry: %v", err)
			}
		}

		limit := int64(cfg.RateLimitRequests)
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))

		if count > limit {
			ttl, _ := redisClient.TTL(ctx, key).Result()
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(ttl).Unix()))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": ttl.Seconds(),
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", limit-count))
		c.Next()
	}
}
