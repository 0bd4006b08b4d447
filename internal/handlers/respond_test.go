package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/backend/internal/llm"
	"github.com/prepwise/backend/internal/services"
	"github.com/prepwise/backend/internal/validation"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", &validation.Error{Field: "email", Message: "missing"}, 400, "email: missing"},
		{"duplicate", fmt.Errorf("register: %w", services.ErrDuplicateIdentity), 400, "User already exists"},
		{"credentials", services.ErrInvalidCredentials, 401, "Invalid credentials"},
		{"expired", services.ErrTokenExpired, 401, "Unauthorized"},
		{"not found", services.ErrNotFound, 404, "Not found"},
		{"upstream", &llm.ErrUpstream{Provider: "Gemini", StatusCode: 503, Message: "overloaded"}, 500, "Gemini API error: 503 - overloaded"},
		{"invalid response", &llm.ErrInvalidResponse{Provider: "OpenAI"}, 500, "Invalid response structure from OpenAI API"},
		{"unknown", errors.New("connection reset"), 500, internalErrorMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, message := classify(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.message, message)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db password leaked in error") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"status":"error","message":"Internal server error"}`, string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.JSONEq(t, `{"status":"error","message":"short and stout"}`, string(body))
}

func TestGuestErrorUsesFailureMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/fail", func(c *fiber.Ctx) error {
		return guestError(c, errors.New("disk full"), "", "Failed to save MCQ result")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"message":"Failed to save MCQ result"}`, string(body))
}

func TestHealthCheckDegraded(t *testing.T) {
	app := fiber.New()
	h := NewHealthHandler("postgres", func(ctx context.Context) error { return errors.New("refused") })
	app.Get("/health", h.Check)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
