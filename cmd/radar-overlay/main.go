package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/radar-overlay/internal/api/http"
	"github.com/i474232898/radar-overlay/internal/config"
	"github.com/i474232898/radar-overlay/internal/radar"
	"github.com/i474232898/radar-overlay/internal/radar/providers"
	"github.com/i474232898/radar-overlay/internal/scheduler"
	"github.com/i474232898/radar-overlay/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound feed calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Nowcast feed with resilience (backoff + circuit breaker).
	feed := providers.NewJMAProvider(httpClient, cfg.FeedURL)

	service := radar.NewService(feed, radar.WithTileURLPattern(cfg.TileURLPattern))

	// In-memory probe history with configured retention.
	history := store.NewMemoryStore(cfg.HistoryMax, cfg.HistoryMaxAge)

	// Scheduler that periodically probes the feed.
	sched := scheduler.New(cfg.ProbeInterval, cfg.Window, service, history)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "radar-overlay",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 10*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "radar-overlay",
		})
	})

	httpapi.RegisterRoutes(app, service, history, httpapi.Defaults{
		Key:         cfg.LayerKey,
		BeforeLayer: cfg.BeforeLayer,
		Window:      cfg.Window,
		BaseLayers:  cfg.BaseLayers,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: radar-overlay listening on :%s (feed %s)", cfg.Port, cfg.FeedURL)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
