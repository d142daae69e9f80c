// Package main Gradebook API
// @title Gradebook API
// @version 1.0
// @description Course grade aggregation and the staff gradebook
// @securityDefinitions.apikey StaffKey
// @in header
// @name X-Api-Key
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/DjordjeVuckovic/gradebook/docs"
	"github.com/DjordjeVuckovic/gradebook/internal/api/router"
	"github.com/DjordjeVuckovic/gradebook/internal/api/server"
	"github.com/DjordjeVuckovic/gradebook/internal/gradebook"
	"github.com/DjordjeVuckovic/gradebook/internal/notify"
	"github.com/DjordjeVuckovic/gradebook/internal/recompute"
	"github.com/DjordjeVuckovic/gradebook/internal/storage/factory"
	"github.com/DjordjeVuckovic/gradebook/internal/workflow"
	pkgserver "github.com/DjordjeVuckovic/gradebook/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, healthChecker, err := factory.NewStore(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var trigger recompute.Trigger
	switch cfg.Trigger {
	case TriggerTemporal:
		tc, err := workflow.Dial(cfg.Temporal)
		if err != nil {
			slog.Error("Failed to connect to Temporal", "error", err)
			os.Exit(1)
		}
		defer tc.Close()
		trigger = workflow.NewTemporalTrigger(tc, cfg.Temporal.TaskQueue)
		healthChecker = pkgserver.All(healthChecker, workflow.HealthChecker(tc))
	default:
		notifier, err := notify.New(ctx, cfg.Notify)
		if err != nil {
			slog.Error("Failed to create notifier", "error", err)
			os.Exit(1)
		}
		dispatcher := recompute.NewDispatcher(recompute.NewRecomputer(store, notifier), cfg.Dispatcher)
		defer dispatcher.Close()
		trigger = dispatcher
	}

	s := server.New(sCfg, healthChecker).
		SetupMiddlewares().
		SetupHealthChecks().
		SetupOpenApi()

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Gradebook API is running")
	})

	renderer, err := gradebook.NewRenderer()
	if err != nil {
		slog.Error("Failed to create gradebook renderer", "error", err)
		os.Exit(1)
	}

	courseRouter := router.NewCourseRouter(s.Echo, store, gradebook.NewService(store, cfg.MaxStudentsPerPage), renderer, trigger)
	courseRouter.Bind(s.StaffGroup("/courses"))

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	slog.Info("Starting gradebook API", "port", sCfg.Port, "storage", cfg.StorageConfig.Type, "trigger", cfg.Trigger)
	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
