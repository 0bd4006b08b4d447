package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/backend/internal/dto"
	"github.com/prepwise/backend/internal/services"
)

const testSecret = "middleware-secret"

func newProtectedApp(tokens *services.TokenService) *fiber.App {
	app := fiber.New()
	app.Get("/me", Protected(tokens), func(c *fiber.Ctx) error {
		id, err := CurrentUserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func assertUnauthorized(t *testing.T, status int, body string) {
	t.Helper()
	assert.Equal(t, fiber.StatusUnauthorized, status)
	var env dto.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Unauthorized", env.Message)
}

func TestProtected_ValidToken(t *testing.T) {
	tokens := services.NewTokenService(testSecret, time.Hour)
	userID := uuid.New()
	token, _, err := tokens.Issue(userID)
	require.NoError(t, err)

	status, body := doGet(t, newProtectedApp(tokens), "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, userID.String(), body)
}

func TestProtected_MissingToken(t *testing.T) {
	tokens := services.NewTokenService(testSecret, time.Hour)

	status, body := doGet(t, newProtectedApp(tokens), "")
	assertUnauthorized(t, status, body)

	status, body = doGet(t, newProtectedApp(tokens), "Basic abc")
	assertUnauthorized(t, status, body)
}

func TestProtected_ExpiredToken(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	tokens := services.NewTokenService(testSecret, 24*time.Hour).WithClock(func() time.Time { return past })
	token, _, err := tokens.Issue(uuid.New())
	require.NoError(t, err)

	status, body := doGet(t, newProtectedApp(services.NewTokenService(testSecret, time.Hour)), "Bearer "+token)
	assertUnauthorized(t, status, body)
}

func TestProtected_WrongSecret(t *testing.T) {
	token, _, err := services.NewTokenService("other", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	status, body := doGet(t, newProtectedApp(services.NewTokenService(testSecret, time.Hour)), "Bearer "+token)
	assertUnauthorized(t, status, body)
}

func TestProtected_TokenWithoutExpiry(t *testing.T) {
	claims := services.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	status, body := doGet(t, newProtectedApp(services.NewTokenService(testSecret, time.Hour)), "Bearer "+token)
	assertUnauthorized(t, status, body)
}

func TestTokenErrorKind(t *testing.T) {
	assert.Equal(t, "token_missing", tokenErrorKind(services.ErrTokenMissing))
	assert.Equal(t, "token_expired", tokenErrorKind(services.ClassifyTokenError(jwt.ErrTokenExpired)))
	assert.Equal(t, "token_invalid", tokenErrorKind(services.ClassifyTokenError(jwt.ErrTokenSignatureInvalid)))
}

func TestSecurityHeadersAndRateLimit(t *testing.T) {
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Use(RateLimit(1, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimit_Disabled(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(0, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestProtected_LogsMissingAndMalformedSeparately(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	app := newProtectedApp(services.NewTokenService(testSecret, time.Hour))

	status, body := doGet(t, app, "")
	assertUnauthorized(t, status, body)
	assert.Contains(t, buf.String(), `"reason":"token_missing"`)

	buf.Reset()
	status, body = doGet(t, app, "Basic abc")
	assertUnauthorized(t, status, body)
	assert.Contains(t, buf.String(), `"reason":"token_invalid"`)
}
