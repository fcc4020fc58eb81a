package timer

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes timer HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a timer HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type timerResponse struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"project_name"`
	Description string    `json:"description"`
	CategoryID  string    `json:"category_id,omitempty"`
	Status      string    `json:"status"`
	Time        int64     `json:"time"`
	StartedAt   time.Time `json:"started_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResponse(t Timer) timerResponse {
	return timerResponse{
		ID:          t.ID,
		ProjectName: t.ProjectName,
		Description: t.Description,
		CategoryID:  t.CategoryID,
		Status:      t.Status,
		Time:        t.Time,
		StartedAt:   t.StartedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// List returns the caller's timers.
func (h *Handler) List(c *fiber.Ctx) error {
	timers, err := h.service.List(c.UserContext(), callerID(c))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to fetch timers")
	}
	out := make([]timerResponse, 0, len(timers))
	for _, t := range timers {
		out = append(out, toResponse(t))
	}
	return c.Status(http.StatusOK).JSON(out)
}

type createRequest struct {
	ProjectName string `json:"project_name"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
}

// Create provisions a timer for the caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	t, err := h.service.Create(c.UserContext(), CreateInput{
		UserID:      callerID(c),
		ProjectName: req.ProjectName,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(t))
}

type updateRequest struct {
	Status      *string `json:"status"`
	Time        *int64  `json:"time"`
	ProjectName *string `json:"project_name"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
}

// Update applies a partial edit or status transition to the caller's timer.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	t, err := h.service.Update(c.UserContext(), callerID(c), c.Params("id"), UpdateInput{
		Status:      req.Status,
		Time:        req.Time,
		ProjectName: req.ProjectName,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(t))
}

// Delete removes the caller's timer.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), callerID(c), c.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "failed to delete timer")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
