package middleware

import (
	"errors"
	"log/slog"
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/prepwise/backend/internal/dto"
	"github.com/prepwise/backend/internal/services"
)

const (
	tokenLocal  = "user"
	userIDLocal = "user_id"
)

// Protected extracts the bearer token, verifies it with the token
// service's key and resolves the user id into c.Locals. Every failure is a
// uniform 401; the failure kind is only logged.
func Protected(tokens *services.TokenService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:    tokens.KeyFunc,
		Claims:     &services.TokenClaims{},
		ContextKey: tokenLocal,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenLocal).(*jwt.Token)
			if !ok {
				return unauthorized(c, services.ErrTokenInvalid)
			}
			if exp, err := token.Claims.GetExpirationTime(); err != nil || exp == nil {
				return unauthorized(c, services.ErrTokenInvalid)
			}
			userID, err := services.SubjectFromClaims(token.Claims)
			if err != nil {
				return unauthorized(c, err)
			}
			c.Locals(userIDLocal, userID)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return unauthorized(c, missingOrMalformed(c))
			}
			return unauthorized(c, services.ClassifyTokenError(err))
		},
	})
}

// missingOrMalformed splits jwtware's combined error: no Authorization
// header is a missing token, anything else (such as a non-Bearer scheme)
// is an invalid one.
func missingOrMalformed(c *fiber.Ctx) error {
	if strings.TrimSpace(c.Get(fiber.HeaderAuthorization)) == "" {
		return services.ErrTokenMissing
	}
	return services.ErrTokenInvalid
}

func unauthorized(c *fiber.Ctx, err error) error {
	slog.Warn("authentication failed",
		"reason", tokenErrorKind(err),
		"method", c.Method(),
		"path", c.Path(),
		"request_id", RequestID(c),
	)
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Status: "error", Message: "Unauthorized",
	})
}

func tokenErrorKind(err error) string {
	switch {
	case errors.Is(err, services.ErrTokenMissing):
		return "token_missing"
	case errors.Is(err, services.ErrTokenExpired):
		return "token_expired"
	default:
		return "token_invalid"
	}
}
