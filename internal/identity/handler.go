package identity

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stacked-time/stacked_time/internal/verification"
)

// Handler exposes the identity protocols over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(user User) userResponse {
	return userResponse{ID: user.ID, Name: user.Name, Email: user.Email, CreatedAt: user.CreatedAt}
}

type sendVerificationRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SendVerification starts the signup flow: it issues a code to an unregistered
// email and returns the correlation token the client must echo back.
func (h *Handler) SendVerification(c *fiber.Ctx) error {
	var req sendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "email and name are required")
	}

	ch, err := h.service.StartRegistration(c.UserContext(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			return fiber.NewError(http.StatusBadRequest, "This email is already registered. Please sign in instead.")
		}
		return fiber.NewError(http.StatusInternalServerError, "Failed to send verification code")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "token": ch.Token})
}

type verifyCodeRequest struct {
	Email    string `json:"email"`
	NewEmail string `json:"new_email"`
	Code     string `json:"code"`
	Token    string `json:"token"`
}

// VerifyCode checks a code/token pair without consuming the challenge; the
// gated mutation happens in a later step.
func (h *Handler) VerifyCode(c *fiber.Ctx) error {
	var req verifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Code == "" || req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, verification.ErrInvalidChallenge.Error())
	}

	query := verification.Exact(req.Email, req.Code, req.Token)
	if req.NewEmail != "" {
		query = verification.ExactWithTarget(req.Email, req.Code, req.Token, req.NewEmail)
	}
	if err := h.service.VerifyCode(c.UserContext(), query); err != nil {
		return statusError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register completes signup by creating the account.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "all fields are required")
	}

	user, err := h.service.CompleteRegistration(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return statusError(err)
	}
	return c.Status(http.StatusCreated).JSON(toUserResponse(user))
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset code. It responds identically for registered
// and unregistered emails.
func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email is required")
	}

	ch, err := h.service.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "Failed to send verification code")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "token": ch.Token})
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword applies a verified password reset.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Code == "" || req.Token == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "missing required fields")
	}

	if err := h.service.ResetPassword(c.UserContext(), ResetInput(req)); err != nil {
		return statusError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

// Profile returns the authenticated user's account.
func (h *Handler) Profile(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), callerID(c))
	if err != nil {
		return statusError(err)
	}
	return c.Status(http.StatusOK).JSON(toUserResponse(user))
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfile changes the authenticated user's display name.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name is required")
	}

	user, err := h.service.UpdateName(c.UserContext(), callerID(c), req.Name)
	if err != nil {
		return statusError(err)
	}
	return c.Status(http.StatusOK).JSON(toUserResponse(user))
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword changes the authenticated user's password.
func (h *Handler) UpdatePassword(c *fiber.Ctx) error {
	var req updatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "current and new password are required")
	}

	if err := h.service.UpdatePassword(c.UserContext(), callerID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return statusError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

type requestEmailChangeRequest struct {
	NewEmail string `json:"new_email"`
}

// RequestEmailChange issues a code to the caller's current mailbox for a
// pending email change.
func (h *Handler) RequestEmailChange(c *fiber.Ctx) error {
	var req requestEmailChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.NewEmail == "" {
		return fiber.NewError(http.StatusBadRequest, "new email is required")
	}

	ch, err := h.service.RequestEmailChange(c.UserContext(), callerID(c), req.NewEmail)
	if err != nil {
		if errors.Is(err, ErrSameEmail) || errors.Is(err, ErrNotFound) {
			return statusError(err)
		}
		return fiber.NewError(http.StatusInternalServerError, "Failed to send verification code")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "token": ch.Token})
}

type updateEmailRequest struct {
	NewEmail string `json:"new_email"`
	Code     string `json:"code"`
	Token    string `json:"token"`
}

// UpdateEmail applies a verified email change for the authenticated user.
func (h *Handler) UpdateEmail(c *fiber.Ctx) error {
	var req updateEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.NewEmail == "" || req.Code == "" || req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "all fields are required")
	}

	user, err := h.service.ChangeEmail(c.UserContext(), callerID(c), ChangeEmailInput(req))
	if err != nil {
		return statusError(err)
	}
	return c.Status(http.StatusOK).JSON(toUserResponse(user))
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// statusError maps domain errors to HTTP errors. Invalid-challenge failures
// share one message regardless of cause.
func statusError(err error) error {
	switch {
	case errors.Is(err, verification.ErrInvalidChallenge):
		return fiber.NewError(http.StatusBadRequest, "Code is invalid, please try again.")
	case errors.Is(err, ErrDuplicateIdentity),
		errors.Is(err, ErrSamePassword),
		errors.Is(err, ErrSameEmail):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "something went wrong")
	}
}
