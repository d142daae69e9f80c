package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/gradebook/internal/storage"
	"github.com/DjordjeVuckovic/gradebook/internal/storage/pg"
)

type StorageConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	// CourseCacheTTL enables the course structure cache when positive.
	CourseCacheTTL time.Duration
}

func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Info("STORAGE_TYPE is not set, using in-memory storage")
		storageType = storage.InMem
	}
	if storageType != storage.PG && storageType != storage.InMem {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			[]storage.Type{storage.PG, storage.InMem})
	}

	var pgCfg *pg.PoolConfig
	if storageType == storage.PG {
		pgCfg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if pgCfg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
		var err error
		if pgCfg.MaxConns, err = positiveInt32Env("PG_MAX_CONNS"); err != nil {
			return nil, err
		}
		if pgCfg.MinConns, err = positiveInt32Env("PG_MIN_CONNS"); err != nil {
			return nil, err
		}
		if v := os.Getenv("PG_MAX_CONN_IDLE"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("invalid PG_MAX_CONN_IDLE %q: %w", v, err)
			}
			pgCfg.MaxConnIdleTime = d
		}
	}

	var ttl time.Duration
	if v := os.Getenv("COURSE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid COURSE_CACHE_TTL %q: %w", v, err)
		}
		ttl = d
	}

	return &StorageConfig{
		Type:           storageType,
		Pg:             pgCfg,
		CourseCacheTTL: ttl,
	}, nil
}

func positiveInt32Env(key string) (int32, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, v)
	}
	return int32(n), nil
}
