package category

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes category HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a category HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(c Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Color: c.Color, CreatedAt: c.CreatedAt}
}

// List returns the caller's categories.
func (h *Handler) List(c *fiber.Ctx) error {
	categories, err := h.service.List(c.UserContext(), callerID(c))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to fetch categories")
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, toResponse(cat))
	}
	return c.Status(http.StatusOK).JSON(out)
}

type createRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Create adds a category for the caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	cat, err := h.service.Create(c.UserContext(), CreateInput{UserID: callerID(c), Name: req.Name, Color: req.Color})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(cat))
}

// Delete removes the caller's category.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), callerID(c), c.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "failed to delete category")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
