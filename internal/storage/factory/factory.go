package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/gradebook/internal/storage"
	"github.com/DjordjeVuckovic/gradebook/internal/storage/cached"
	"github.com/DjordjeVuckovic/gradebook/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/gradebook/internal/storage/pg"
	pkgserver "github.com/DjordjeVuckovic/gradebook/pkg/server"
)

// NewStore creates the storage.Store selected by cfg together with a health
// checker for it.
func NewStore(ctx context.Context, cfg *StorageConfig) (storage.Store, pkgserver.HealthChecker, error) {
	var (
		store   storage.Store
		checker pkgserver.HealthChecker
	)

	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		pgStore, err := pg.NewStore(pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		store = pgStore
		checker = pg.NewHealthChecker(pool)

	case storage.InMem:
		store = in_mem.NewStore()
		checker = pkgserver.NewOkHealthChecker()

	default:
		return nil, nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}

	if cfg.CourseCacheTTL > 0 {
		store = cached.NewStore(store, cfg.CourseCacheTTL)
	}
	return store, checker, nil
}
