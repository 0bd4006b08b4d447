package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/prepwise/backend/internal/services"
)

// CurrentUserID returns the user id resolved by Protected.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(userIDLocal).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, services.ErrTokenMissing
	}
	return id, nil
}

// RequestID returns the id set by the requestid middleware, if any.
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
