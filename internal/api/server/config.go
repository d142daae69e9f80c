package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/gradebook/pkg/config/env"
	"github.com/DjordjeVuckovic/gradebook/pkg/utils"
)

const defaultDotEnvPath = "cmd/gradebook_api/.env"

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
	// StaffAPIKeys guards the staff routes. Empty disables the check, which is
	// only accepted in local mode.
	StaffAPIKeys []string
}

var ErrStaffKeysRequired = errors.New("STAFF_API_KEYS must be set outside local mode")

func LoadConfig() (*Config, error) {
	appEnv := os.Getenv("ENV")
	err := env.LoadDotEnv(appEnv, defaultDotEnvPath)
	if err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	useHttp2 := os.Getenv("USE_HTTP2") == "true"

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := utils.SplitList(os.Getenv("CORS_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	staffKeys := utils.SplitList(os.Getenv("STAFF_API_KEYS"))
	if len(staffKeys) == 0 {
		if appEnv != "local" && appEnv != "" {
			return nil, ErrStaffKeysRequired
		}
		slog.Warn("STAFF_API_KEYS is not set, staff routes are open in local mode")
	}

	return &Config{
		Port:         port,
		UseHttp2:     useHttp2,
		CorsOrigins:  origins,
		StaffAPIKeys: staffKeys,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
