package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stacked-time/stacked_time/internal/identity"
)

// RegisterSignupRoutes wires the public verification, signup and password
// reset endpoints. Code issuance shares one rate limiter so resend storms
// are capped regardless of the entry point.
func RegisterSignupRoutes(r fiber.Router, h *identity.Handler, sendLimiter fiber.Handler) {
	group := r.Group("/auth")
	if sendLimiter != nil {
		group.Post("/send-verification", sendLimiter, h.SendVerification)
		group.Post("/forgot-password", sendLimiter, h.ForgotPassword)
	} else {
		group.Post("/send-verification", h.SendVerification)
		group.Post("/forgot-password", h.ForgotPassword)
	}
	group.Post("/verify-code", h.VerifyCode)
	group.Post("/register", h.Register)
	group.Post("/reset-password", h.ResetPassword)
}
