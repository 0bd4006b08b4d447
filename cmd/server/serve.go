package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"

	"github.com/prepwise/backend/internal/config"
	"github.com/prepwise/backend/internal/database"
	"github.com/prepwise/backend/internal/handlers"
	"github.com/prepwise/backend/internal/llm"
	"github.com/prepwise/backend/internal/logging"
	"github.com/prepwise/backend/internal/middleware"
	"github.com/prepwise/backend/internal/routes"
	"github.com/prepwise/backend/internal/services"
	"github.com/prepwise/backend/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// backend holds the stores for the selected STORAGE_DRIVER.
type backend struct {
	users   store.UserStore
	results store.ResultStore
	logs    store.LogStore
	ping    handlers.PingFunc
	close   func()
}

func openBackend(cfg *config.Config) (*backend, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		slog.Warn("using in-memory storage, data is lost on restart")
		return &backend{
			users:   store.NewMemoryUserStore(),
			results: store.NewMemoryResultStore(),
			logs:    store.NewMemoryLogStore(),
			close:   func() {},
		}, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &backend{
		users:   store.NewGormUserStore(db),
		results: store.NewGormResultStore(db),
		logs:    store.NewGormLogStore(db),
		ping:    func(ctx context.Context) error { return database.Ping(ctx, db) },
		close: func() {
			if err := database.Close(db); err != nil {
				slog.Error("database close error", "error", err)
			}
		},
	}, nil
}

func runServe(cmd *cobra.Command) error {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return err
	}

	be, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer be.close()

	// Persist ERROR+ records next to stdout.
	storeHandler := logging.NewStoreHandler(be.logs)
	logger := logging.Setup(cfg.LogLevel, storeHandler)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	logging.StartCleanup(ctx, be.logs, logging.DefaultRetention, 24*time.Hour)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	provider, err := llm.NewProvider(ctx, llm.ConfigFrom(cfg), logger)
	if err != nil {
		// The rest of the API stays up; text generation answers with 500.
		slog.Error("llm provider unavailable", "provider", cfg.LLMProvider, "error", err)
		provider = llm.NewUnavailableProvider(cfg.LLMProvider, err)
	} else {
		slog.Info("llm provider ready", "provider", cfg.LLMProvider, "model", provider.ModelID())
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(be.users, tokens)
	mcqService := services.NewMCQService(be.results)

	app := newApp(cfg)
	routes.Setup(app, cfg, tokens, routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		MCQ:    handlers.NewMCQHandler(mcqService),
		Guest:  handlers.NewGuestResultHandler(mcqService),
		Gemini: handlers.NewGeminiHandler(provider),
		Health: handlers.NewHealthHandler(cfg.StorageDriver, be.ping),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "storage", cfg.StorageDriver)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		storeHandler.Stop()
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stop()
	storeHandler.Stop()
	slog.Info("server stopped")
	return nil
}

func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "PrepWise API",
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	if cfg.SentryDSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.SecurityHeaders())
	return app
}
