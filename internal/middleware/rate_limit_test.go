package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func setupRateLimitApp(t *testing.T, maxPerMin int) *fiber.App {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Post("/send", RateLimit(cache, "send", maxPerMin), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func postEmail(t *testing.T, app *fiber.App, email string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/send", strings.NewReader(`{"email":"`+email+`"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	app := setupRateLimitApp(t, 3)

	for i := 0; i < 3; i++ {
		if status := postEmail(t, app, "a@x.com"); status != fiber.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, status)
		}
	}
	if status := postEmail(t, app, "a@x.com"); status != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", status)
	}

	// Another email is counted separately.
	if status := postEmail(t, app, "b@x.com"); status != fiber.StatusOK {
		t.Fatalf("expected 200 for other email, got %d", status)
	}
}
