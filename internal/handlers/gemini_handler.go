package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prepwise/backend/internal/dto"
	"github.com/prepwise/backend/internal/llm"
	"github.com/prepwise/backend/internal/validation"
)

// GeminiHandler forwards prompts to the configured LLM provider.
type GeminiHandler struct {
	provider llm.Provider
}

func NewGeminiHandler(provider llm.Provider) *GeminiHandler {
	return &GeminiHandler{provider: provider}
}

func (h *GeminiHandler) Text(c *fiber.Ctx) error {
	var req dto.GeminiTextRequest
	if err := validation.Decode(validation.GeminiText, c.Body(), &req); err != nil {
		return apiError(c, err, "")
	}

	llmReq := llm.Request{
		Prompt:      req.Prompt,
		MaxTokens:   llm.DefaultMaxTokens,
		Temperature: llm.DefaultTemperature,
	}
	if req.MaxTokens != nil {
		llmReq.MaxTokens = *req.MaxTokens
	}
	if req.Temperature != nil {
		llmReq.Temperature = *req.Temperature
	}

	resp, err := h.provider.Generate(c.UserContext(), llmReq)
	if err != nil {
		return apiError(c, err, "")
	}
	return c.JSON(dto.GeminiTextResponse{Status: "success", Text: resp.Text})
}
