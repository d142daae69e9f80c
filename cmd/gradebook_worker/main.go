package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/gradebook/internal/notify"
	"github.com/DjordjeVuckovic/gradebook/internal/recompute"
	"github.com/DjordjeVuckovic/gradebook/internal/storage/factory"
	"github.com/DjordjeVuckovic/gradebook/internal/workflow"
	"github.com/DjordjeVuckovic/gradebook/pkg/config/env"
	sdkworker "go.temporal.io/sdk/worker"
)

func main() {
	if err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/gradebook_worker/.env"); err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		os.Exit(1)
	}
	temporalCfg := workflow.LoadTemporalEnv()

	ctx := context.Background()
	store, _, err := factory.NewStore(ctx, storageCfg)
	if err != nil {
		slog.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	notifier, err := notify.New(ctx, notify.LoadEnv())
	if err != nil {
		slog.Error("Failed to create notifier", "error", err)
		os.Exit(1)
	}

	c, err := workflow.Dial(temporalCfg)
	if err != nil {
		slog.Error("Failed to connect to Temporal", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	w := sdkworker.New(c, temporalCfg.TaskQueue, sdkworker.Options{})
	workflow.Register(w, workflow.NewActivities(recompute.NewRecomputer(store, notifier)))

	slog.Info("Starting recompute worker", "task_queue", temporalCfg.TaskQueue, "storage", storageCfg.Type)
	if err := w.Run(sdkworker.InterruptCh()); err != nil {
		slog.Error("Worker stopped", "error", err)
		os.Exit(1)
	}
}
