package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/prepwise/backend/internal/dto"
	"github.com/prepwise/backend/internal/llm"
	"github.com/prepwise/backend/internal/middleware"
	"github.com/prepwise/backend/internal/services"
	"github.com/prepwise/backend/internal/validation"
)

const internalErrorMessage = "Internal server error"

// classify maps a service error to an HTTP status and the message shown
// to the client. Unknown errors get a generic message.
func classify(err error) (int, string) {
	var verr *validation.Error
	var upstream *llm.ErrUpstream
	var invalid *llm.ErrInvalidResponse

	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, verr.Error()
	case errors.Is(err, services.ErrDuplicateIdentity):
		return fiber.StatusBadRequest, "User already exists"
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Invalid credentials"
	case services.IsAuthError(err):
		return fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.As(err, &upstream):
		return fiber.StatusInternalServerError, upstream.Error()
	case errors.As(err, &invalid):
		return fiber.StatusInternalServerError, invalid.Error()
	default:
		return fiber.StatusInternalServerError, internalErrorMessage
	}
}

// apiError renders err in the {status:"error"} envelope.
func apiError(c *fiber.Ctx, err error, notFound string) error {
	status, message := classify(err)
	if status == fiber.StatusNotFound && notFound != "" {
		message = notFound
	}
	logFailure(c, status, err)
	return c.Status(status).JSON(dto.ErrorResponse{Status: "error", Message: message})
}

// guestError renders err in the {success:false} envelope. failure replaces
// the generic message of unexpected errors.
func guestError(c *fiber.Ctx, err error, notFound, failure string) error {
	status, message := classify(err)
	switch {
	case status == fiber.StatusNotFound && notFound != "":
		message = notFound
	case message == internalErrorMessage && failure != "":
		message = failure
	}
	logFailure(c, status, err)
	return c.Status(status).JSON(dto.GuestErrorResponse{Success: false, Message: message})
}

func logFailure(c *fiber.Ctx, status int, err error) {
	attrs := []any{
		"status", status,
		"method", c.Method(),
		"path", c.Path(),
		"request_id", middleware.RequestID(c),
		"error", err.Error(),
	}
	if id, idErr := middleware.CurrentUserID(c); idErr == nil {
		attrs = append(attrs, "user_id", id.String())
	}
	if status >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed", attrs...)
		return
	}
	slog.DebugContext(c.UserContext(), "request rejected", attrs...)
}

// ErrorHandler is the Fiber fallback for errors no handler rendered, such
// as unknown routes or recovered panics. 5xx details stay server-side.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := internalErrorMessage
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", middleware.RequestID(c),
			"error", err.Error(),
		)
		message = internalErrorMessage
	}

	return c.Status(code).JSON(dto.ErrorResponse{Status: "error", Message: message})
}
