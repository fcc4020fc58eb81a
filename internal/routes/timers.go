package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stacked-time/stacked_time/internal/timer"
)

// RegisterTimerRoutes wires timer CRUD endpoints.
func RegisterTimerRoutes(r fiber.Router, h *timer.Handler) {
	group := r.Group("/timers")
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Put("/:id", h.Update)
	group.Delete("/:id", h.Delete)
}
