package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prepwise/backend/internal/config"
	"github.com/prepwise/backend/internal/dto"
	"github.com/prepwise/backend/internal/handlers"
	"github.com/prepwise/backend/internal/middleware"
	"github.com/prepwise/backend/internal/services"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	MCQ    *handlers.MCQHandler
	Guest  *handlers.GuestResultHandler
	Gemini *handlers.GeminiHandler
	Health *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, tokens *services.TokenService, h Handlers) {
	app.Get("/", h.Health.Root)

	api := app.Group("/api", middleware.CORS(cfg))

	// General API rate limit per IP
	api.Use(middleware.RateLimit(cfg.RateLimit, tooManyRequests))

	api.Get("/health", h.Health.Check)
	api.Get("/test", h.Health.Test)

	// Auth has a stricter limit
	auth := api.Group("/auth", middleware.RateLimit(cfg.AuthRateLimit, tooManyRequests))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Get("/profile", middleware.Protected(tokens), h.Auth.Profile)

	api.Post("/gemini/text", h.Gemini.Text)

	// Per-user results (JWT required). Protected is attached per route: a
	// group middleware on /mcq would also match /mcq-results.
	protected := middleware.Protected(tokens)
	api.Post("/mcq/save", protected, h.MCQ.Save)
	api.Get("/mcq/history", protected, h.MCQ.History)
	api.Get("/mcq/stats", protected, h.MCQ.Stats)

	// Guest results (no auth)
	api.Post("/mcq-results", h.Guest.Create)
	api.Get("/mcq-results", h.Guest.List)
	api.Get("/mcq-results/:id", h.Guest.Get)
	api.Get("/mcq-stats", h.Guest.Stats)
}

func tooManyRequests(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
		Status: "error", Message: "Too many requests, please try again later",
	})
}
