package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stacked-time/stacked_time/internal/feedback"
)

// RegisterFeedbackRoutes wires the feedback endpoint.
func RegisterFeedbackRoutes(r fiber.Router, h *feedback.Handler) {
	r.Post("/feedback", h.Submit)
}
