package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prepwise/backend/internal/dto"
	"github.com/prepwise/backend/internal/services"
	"github.com/prepwise/backend/internal/validation"
)

// GuestResultHandler serves anonymous quiz results and type statistics.
type GuestResultHandler struct {
	mcqService *services.MCQService
}

func NewGuestResultHandler(mcqService *services.MCQService) *GuestResultHandler {
	return &GuestResultHandler{mcqService: mcqService}
}

func (h *GuestResultHandler) Create(c *fiber.Ctx) error {
	var req dto.GuestResultRequest
	if err := validation.Decode(validation.GuestResult, c.Body(), &req); err != nil {
		return guestError(c, err, "", "Failed to save MCQ result")
	}

	result, err := h.mcqService.SaveGuestResult(c.UserContext(), &req)
	if err != nil {
		return guestError(c, err, "", "Failed to save MCQ result")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaveGuestResultResponse{
		Success: true,
		Message: "MCQ result saved successfully",
		Result:  *result,
	})
}

func (h *GuestResultHandler) List(c *fiber.Ctx) error {
	results, err := h.mcqService.RecentGuestResults(c.UserContext())
	if err != nil {
		return guestError(c, err, "", "Failed to fetch MCQ results")
	}
	return c.JSON(results)
}

func (h *GuestResultHandler) Get(c *fiber.Ctx) error {
	result, err := h.mcqService.GetResult(c.UserContext(), c.Params("id"))
	if err != nil {
		return guestError(c, err, "MCQ result not found", "Failed to fetch MCQ result")
	}
	return c.JSON(result)
}

func (h *GuestResultHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.mcqService.TypeStats(c.UserContext())
	if err != nil {
		return guestError(c, err, "", "Failed to fetch MCQ statistics")
	}
	return c.JSON(dto.TypeStatsResponse{Success: true, Stats: stats})
}
