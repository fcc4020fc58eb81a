package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/stacked-time/stacked_time/internal/auth"
	"github.com/stacked-time/stacked_time/internal/identity"
)

// JWTAuth validates bearer access tokens and resolves the caller into request
// locals. Every protected handler reads the caller from "user_id" and scopes
// its queries to that account.
func JWTAuth(tokens *auth.Service, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		userID, err := tokens.VerifyAccess(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		// A valid token for a since-removed account must not pass.
		if _, err := repo.FindByID(c.UserContext(), userID); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
