package middleware

import (
	"sync"
	"time"

	utils "github.com/fathima-sithara/video-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const defaultIdleTTL = 10 * time.Minute

type localEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// LocalRateLimiter is a per-key token bucket kept in process memory,
// used when no Redis address is configured. Keys idle for longer than
// IdleTTL are swept so the table stays bounded by active callers.
type LocalRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*localEntry
	rps       rate.Limit
	burst     int
	IdleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewLocalRateLimiter(rps float64, burst int) *LocalRateLimiter {
	return &LocalRateLimiter{
		limiters: make(map[string]*localEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
		IdleTTL:  defaultIdleTTL,
		now:      time.Now,
	}
}

func (l *LocalRateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.IdleTTL {
		for k, e := range l.limiters {
			if now.Sub(e.seen) >= l.IdleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}
	e, ok := l.limiters[key]
	if !ok {
		e = &localEntry{lim: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[key] = e
	}
	e.seen = now
	return e.lim
}

func (l *LocalRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *LocalRateLimiter) MiddlewareByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.get(keyFunc(c)).Allow() {
			return utils.JSONError(c, fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}
