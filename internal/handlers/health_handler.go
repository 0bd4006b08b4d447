package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/prepwise/backend/internal/dto"
)

// PingFunc checks the storage backend. Nil means nothing to check.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	ping    PingFunc
	storage string
}

func NewHealthHandler(storage string, ping PingFunc) *HealthHandler {
	return &HealthHandler{ping: ping, storage: storage}
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.StatusResponse{Status: "success", Message: "PrepWise API is running"})
}

func (h *HealthHandler) Test(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "message": "API is working"})
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			status = "degraded"
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Storage:   h.storage,
	})
}
