package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pulseboard/pulseboard/internal/shared/logger"
	"github.com/pulseboard/pulseboard/internal/shared/utils"
)

// RateLimiter is a Redis fixed-window counter keyed on client IP and route.
// Instances sharing Redis share the budget.
type RateLimiter struct {
	redisClient *redis.Client
	limit       int
	window      time.Duration
	now         func() time.Time
	logger      logger.Interface
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration, logger logger.Interface) *RateLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &RateLimiter{
		redisClient: redisClient,
		limit:       limit,
		window:      window,
		now:         time.Now,
		logger:      logger,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		bucket := rl.now().Unix() / int64(rl.window.Seconds())
		key := fmt.Sprintf("ratelimit:ip:%s:%s:%d", c.FullPath(), c.ClientIP(), bucket)
		ctx := c.Request.Context()

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			// fail open
			rl.logger.Warnw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		if count == 1 {
			if err := rl.redisClient.Expire(ctx, key, rl.window+time.Second).Err(); err != nil {
				rl.logger.Warnw("failed to set rate limit expiry", "key", key, "error", err)
			}
		}

		if count > int64(rl.limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
