package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/gradebook/internal/gradebook"
	"github.com/DjordjeVuckovic/gradebook/internal/notify"
	"github.com/DjordjeVuckovic/gradebook/internal/recompute"
	"github.com/DjordjeVuckovic/gradebook/internal/storage/factory"
	"github.com/DjordjeVuckovic/gradebook/internal/workflow"
	"github.com/DjordjeVuckovic/gradebook/pkg/config/env"
)

const (
	TriggerLocal    = "local"
	TriggerTemporal = "temporal"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type GradebookAPIConfig struct {
	StorageConfig      factory.StorageConfig
	Notify             *notify.Config
	Trigger            string
	Temporal           *workflow.TemporalConfig
	Dispatcher         recompute.DispatcherConfig
	MaxStudentsPerPage int
}

func (as *AppConfig) Load() (*GradebookAPIConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/gradebook_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	cfg := &GradebookAPIConfig{
		StorageConfig:      *storageCfg,
		Notify:             notify.LoadEnv(),
		Trigger:            os.Getenv("RECOMPUTE_TRIGGER"),
		Dispatcher:         recompute.DefaultDispatcherConfig(),
		MaxStudentsPerPage: gradebook.DefaultPageSize,
	}

	switch cfg.Trigger {
	case "", TriggerLocal:
		cfg.Trigger = TriggerLocal
	case TriggerTemporal:
		cfg.Temporal = workflow.LoadTemporalEnv()
	default:
		return nil, fmt.Errorf("invalid RECOMPUTE_TRIGGER %q, expected %q or %q", cfg.Trigger, TriggerLocal, TriggerTemporal)
	}

	if cfg.Dispatcher.Workers, err = positiveIntEnv("RECOMPUTE_WORKERS", cfg.Dispatcher.Workers); err != nil {
		return nil, err
	}
	if cfg.MaxStudentsPerPage, err = positiveIntEnv("MAX_STUDENTS_PER_PAGE", cfg.MaxStudentsPerPage); err != nil {
		return nil, err
	}
	return cfg, nil
}

func positiveIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, v)
	}
	return n, nil
}
