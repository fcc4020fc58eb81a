package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimit caps attempts per minute for one action, keyed by the request's
// email field or the client IP when absent, counted in Redis. Applied to
// login and to verification-code issuance, where it is the server-side
// counterpart of the client's resend cooldown.
func RateLimit(cache *redis.Client, action string, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}
		var req struct {
			Email string `json:"email"`
		}
		_ = c.BodyParser(&req)
		key := strings.TrimSpace(req.Email)
		if key == "" {
			key = c.IP()
		}

		counter := "rl:" + action + ":" + key
		cnt, err := cache.Incr(c.UserContext(), counter).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), counter, time.Minute)
		}
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many attempts, try again later")
		}
		return c.Next()
	}
}
