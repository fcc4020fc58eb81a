package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stacked-time/stacked_time/internal/category"
)

// RegisterCategoryRoutes wires category endpoints.
func RegisterCategoryRoutes(r fiber.Router, h *category.Handler) {
	group := r.Group("/categories")
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Delete("/:id", h.Delete)
}
