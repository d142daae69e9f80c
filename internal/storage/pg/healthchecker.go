package pg

import (
	"context"
	"log/slog"
	"time"
)

const healthCheckTimeout = 2 * time.Second

type HealthChecker struct {
	pool *ConnectionPool
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{pool: pool}
}

// Healthy pings the gradebook database within healthCheckTimeout.
func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := hc.pool.Ping(ctx); err != nil {
		stat := hc.pool.Stat()
		slog.Warn("Gradebook database health check failed",
			"error", err,
			"total_conns", stat.TotalConns(),
			"idle_conns", stat.IdleConns(),
		)
		return false
	}
	return true
}
