package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prepwise/backend/internal/dto"
	"github.com/prepwise/backend/internal/middleware"
	"github.com/prepwise/backend/internal/services"
	"github.com/prepwise/backend/internal/validation"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := validation.Decode(validation.Register, c.Body(), &req); err != nil {
		return apiError(c, err, "")
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return apiError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := validation.Decode(validation.Login, c.Body(), &req); err != nil {
		return apiError(c, err, "")
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return apiError(c, err, "")
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return apiError(c, err, "")
	}

	resp, err := h.authService.Profile(c.UserContext(), userID)
	if err != nil {
		return apiError(c, err, "User not found")
	}
	return c.JSON(resp)
}
