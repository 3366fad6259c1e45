package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-space/core/internal/pkg/response"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// DefaultRateLimit is the per-IP request budget of one window.
	DefaultRateLimit = 20
	rateLimitWindow  = time.Second
)

// RateLimit enforces a fixed-window limit of max requests per second per
// client IP. A nil client disables it; redis errors let the request through.
func RateLimit(rdb *redis.Client, max int64, log *zap.Logger) gin.HandlerFunc {
	if max <= 0 {
		max = DefaultRateLimit
	}
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("portfolio:rate_limit:%s:%d", ip, time.Now().Unix())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Debug("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rdb.PExpire(ctx, key, rateLimitWindow+time.Second)
		}

		if count > max {
			log.Info("rate limited", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			c.Header("Retry-After", "1")
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
