package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stacked-time/stacked_time/internal/identity"
)

// RegisterUserRoutes wires the authenticated account endpoints.
func RegisterUserRoutes(r fiber.Router, h *identity.Handler, sendLimiter fiber.Handler) {
	group := r.Group("/user")
	group.Get("/profile", h.Profile)
	group.Put("/profile", h.UpdateProfile)
	group.Put("/password", h.UpdatePassword)
	if sendLimiter != nil {
		group.Post("/email/request", sendLimiter, h.RequestEmailChange)
	} else {
		group.Post("/email/request", h.RequestEmailChange)
	}
	group.Put("/email", h.UpdateEmail)
}
