package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/gradebook/internal/notify/es"
	"github.com/DjordjeVuckovic/gradebook/pkg/utils"
)

type Config struct {
	// Log enables the structured log notifier.
	Log bool
	// ES is nil when grade indexing is disabled.
	ES *es.ClientConfig
}

func LoadEnv() *Config {
	cfg := &Config{Log: os.Getenv("NOTIFY_LOG") != "false"}

	addresses := utils.SplitList(os.Getenv("ES_ADDRESSES"))
	if len(addresses) > 0 {
		cfg.ES = &es.ClientConfig{
			Addresses: addresses,
			IndexName: os.Getenv("ES_GRADES_INDEX"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
	}
	return cfg
}

// New builds the notifier chain described by cfg.
func New(ctx context.Context, cfg *Config) (Notifier, error) {
	var chain Multi
	if cfg.Log {
		chain = append(chain, NewLogNotifier(slog.Default()))
	}
	if cfg.ES != nil {
		indexer, err := es.NewGradeIndexer(ctx, *cfg.ES)
		if err != nil {
			return nil, fmt.Errorf("failed to create grade indexer: %w", err)
		}
		chain = append(chain, indexer)
	}

	switch len(chain) {
	case 0:
		return Nop{}, nil
	case 1:
		return chain[0], nil
	default:
		return chain, nil
	}
}
