package middleware

import (
	"fmt"
	"time"

	utils "github.com/fathima-sithara/video-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter is a fixed-window counter shared between instances through Redis.
type RateLimiter struct {
	Redis  redis.Cmdable
	Prefix string
	Limit  int
	Window time.Duration
	Logger *zap.SugaredLogger
}

func NewRateLimiter(r redis.Cmdable, prefix string, limit int, window time.Duration, logger *zap.SugaredLogger) *RateLimiter {
	return &RateLimiter{Redis: r, Prefix: prefix, Limit: limit, Window: window, Logger: logger}
}

// MiddlewareByKey fails open when Redis is unreachable.
func (r *RateLimiter) MiddlewareByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		redisKey := fmt.Sprintf("%s:%s", r.Prefix, keyFunc(c))

		count, err := r.Redis.Incr(ctx, redisKey).Result()
		if err != nil {
			if r.Logger != nil {
				r.Logger.Warnw("rate limiter unavailable", "err", err)
			}
			return c.Next()
		}
		if count == 1 {
			if err := r.Redis.Expire(ctx, redisKey, r.Window).Err(); err != nil && r.Logger != nil {
				r.Logger.Warnw("rate limiter expire failed", "key", redisKey, "err", err)
			}
		}
		if count > int64(r.Limit) {
			return utils.JSONError(c, fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}

// CallerKey keys on the authenticated caller, falling back to the client IP.
func CallerKey(c *fiber.Ctx) string {
	if id, ok := c.Locals(UserIDKey).(string); ok && id != "" {
		return "user:" + id
	}
	return "ip:" + c.IP()
}
