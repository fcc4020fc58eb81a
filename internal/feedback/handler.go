package feedback

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/stacked-time/stacked_time/internal/mail"
)

// Handler relays user feedback to the operator mailbox.
type Handler struct {
	mailer mail.Mailer
	to     string
}

// NewHandler builds the feedback handler. to is the operator address.
func NewHandler(mailer mail.Mailer, to string) *Handler {
	return &Handler{mailer: mailer, to: to}
}

type feedbackRequest struct {
	Reaction string `json:"reaction"`
	Message  string `json:"message"`
}

// Submit forwards a feedback message by email.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Reaction == "" || req.Message == "" {
		return fiber.NewError(http.StatusBadRequest, "reaction and message are required")
	}

	subject := fmt.Sprintf("Stacked Time Feedback: %s", req.Reaction)
	if err := h.mailer.Send(c.UserContext(), h.to, subject, mail.FeedbackBody(req.Reaction, req.Message)); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to send feedback")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}
