package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-space/core/internal/pkg/response"
	"github.com/redis/go-redis/v9"
)

const (
	// IdempotenceHeader names a POST. Requests without it are never
	// deduplicated, so re-creating an identical record always succeeds.
	IdempotenceHeader = "x-idempotence"
	idempotenceTTL    = 60 * time.Second
	idempotencePrefix = "portfolio:idempotence:"
	maxIdempotenceKey = 128
)

// Idempotence rejects a POST whose x-idempotence key succeeded, or is still
// running, within the last minute. A nil client disables it.
func Idempotence(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotenceHeader))
		if rdb == nil || c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotenceKey {
			response.BadRequest(c, "Invalid idempotence key", IdempotenceHeader+" must be at most 128 characters")
			return
		}

		redisKey := idempotencePrefix + c.Request.URL.Path + ":" + key
		ctx := c.Request.Context()

		// SetNX claims the key; a lost race reads the winner's state.
		claimed, err := rdb.SetNX(ctx, redisKey, "0", idempotenceTTL).Result()
		if err != nil {
			c.Next()
			return
		}
		if !claimed {
			val, err := rdb.Get(ctx, redisKey).Result()
			if errors.Is(err, redis.Nil) {
				c.Next()
				return
			}
			msg := "a request with this idempotence key succeeded less than 60 seconds ago"
			if val == "0" {
				msg = "a request with this idempotence key is still being processed"
			}
			response.Conflict(c, msg)
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			rdb.Set(ctx, redisKey, "1", redis.KeepTTL)
		} else {
			rdb.Del(ctx, redisKey)
		}
	}
}
