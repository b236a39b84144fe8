package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fenilmodi00/lotto-backend/app"
	"github.com/fenilmodi00/lotto-backend/config"
	"github.com/fenilmodi00/lotto-backend/handlers"
	"github.com/fenilmodi00/lotto-backend/jobs"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

const (
	cacheCleanupInterval = 12 * time.Hour
	shutdownTimeout      = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg := config.LoadConfig()

	services, err := app.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize services")
	}
	defer services.Close()

	// Start background jobs
	syncJob := jobs.NewSyncJob(services.Controller, services.Config.Sync.Interval)
	syncJob.Start(ctx, services.Config.Sync.RunOnStartup)
	jobs.NewCacheCleanupJob(services.Cache).Start(ctx, cacheCleanupInterval)

	// Setup Fiber
	server := fiber.New(fiber.Config{
		AppName:               services.Config.Logging.ServiceName,
		DisableStartupMessage: true,
	})

	// Middleware
	server.Use(logger.New())
	server.Use(cors.New())

	handlers.RegisterRoutes(server, handlers.Handlers{
		Draw:        handlers.NewDrawHandler(services.Archive),
		Sync:        handlers.NewSyncHandler(services.Controller),
		Check:       handlers.NewCheckHandler(services.Archive),
		Suggestion:  handlers.NewSuggestionHandler(services.Suggestions),
		Game:        handlers.NewGameHandler(services.SavedSelections),
		Performance: handlers.NewPerformanceHandler(services.Store, services.Archive, services.Controller, services.Cache),
		Cache:       handlers.NewCacheHandler(services.Cache),
	})

	go func() {
		<-ctx.Done()
		logrus.Info("Shutting down server")
		if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logrus.WithError(err).Warn("Server shutdown did not complete cleanly")
		}
	}()

	// Start server
	logrus.WithField("port", cfg.ServerPort).Info("Server starting")
	if err := server.Listen(":" + cfg.ServerPort); err != nil {
		logrus.WithError(err).Error("Server stopped")
	}

	stop()
	syncJob.Wait()
}
