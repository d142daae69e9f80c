package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	pkgserver "github.com/DjordjeVuckovic/gradebook/pkg/server"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
)

type TemporalConfig struct {
	HostPort  string
	Namespace string
	TaskQueue string
}

func LoadTemporalEnv() *TemporalConfig {
	cfg := &TemporalConfig{
		HostPort:  os.Getenv("TEMPORAL_HOST_PORT"),
		Namespace: os.Getenv("TEMPORAL_NAMESPACE"),
		TaskQueue: os.Getenv("TEMPORAL_TASK_QUEUE"),
	}
	if cfg.HostPort == "" {
		cfg.HostPort = client.DefaultHostPort
	}
	if cfg.Namespace == "" {
		cfg.Namespace = client.DefaultNamespace
	}
	if cfg.TaskQueue == "" {
		cfg.TaskQueue = DefaultTaskQueue
	}
	return cfg
}

func Dial(cfg *TemporalConfig) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
		Logger:    log.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to temporal at %s: %w", cfg.HostPort, err)
	}
	return c, nil
}

// HealthChecker reports whether the Temporal frontend answers health checks.
func HealthChecker(c client.Client) pkgserver.HealthChecker {
	return pkgserver.HealthCheckerFunc(func(ctx context.Context) bool {
		_, err := c.CheckHealth(ctx, &client.CheckHealthRequest{})
		return err == nil
	})
}
