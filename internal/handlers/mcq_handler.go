package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prepwise/backend/internal/dto"
	"github.com/prepwise/backend/internal/middleware"
	"github.com/prepwise/backend/internal/services"
	"github.com/prepwise/backend/internal/validation"
)

// MCQHandler serves per-user results behind bearer authentication.
type MCQHandler struct {
	mcqService *services.MCQService
}

func NewMCQHandler(mcqService *services.MCQService) *MCQHandler {
	return &MCQHandler{mcqService: mcqService}
}

func (h *MCQHandler) Save(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return apiError(c, err, "")
	}

	var req dto.SaveMCQRequest
	if err := validation.Decode(validation.MCQSave, c.Body(), &req); err != nil {
		return apiError(c, err, "")
	}

	result, err := h.mcqService.SaveUserResult(c.UserContext(), userID, &req)
	if err != nil {
		return apiError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaveMCQResponse{
		Status:  "success",
		Message: "MCQ result saved successfully",
		Result:  *result,
	})
}

func (h *MCQHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return apiError(c, err, "")
	}

	results, err := h.mcqService.History(c.UserContext(), userID)
	if err != nil {
		return apiError(c, err, "")
	}
	return c.JSON(dto.HistoryResponse{Status: "success", Results: results})
}

func (h *MCQHandler) Stats(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return apiError(c, err, "")
	}

	stats, err := h.mcqService.UserStats(c.UserContext(), userID)
	if err != nil {
		return apiError(c, err, "")
	}
	return c.JSON(dto.UserStatsResponse{Status: "success", Stats: stats})
}
