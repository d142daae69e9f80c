package env

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/gradebook/pkg/utils"
	"github.com/joho/godotenv"
)

const PathVar = "ENV_PATH"

// LoadDotEnv loads environment variables from .env files. ENV_PATH, when set,
// holds a comma separated list of files and replaces defaultPaths. Files that
// do not exist are skipped; an error is returned only in local mode when no
// file could be loaded.
func LoadDotEnv(env string, defaultPaths ...string) error {
	paths := Paths(os.Getenv(PathVar), defaultPaths...)
	if len(paths) == 0 {
		return nil
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("Skipping missing .env file", "path", p)
				continue
			}
			return err
		}
		existing = append(existing, p)
	}

	if len(existing) == 0 {
		if isLocal(env) {
			return fs.ErrNotExist
		}
		slog.Debug("Skipping .env ...")
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		if isLocal(env) {
			slog.Error("Failed to load environment variables in local mode", "error", err)
			return err
		}
		slog.Debug("Skipping .env ...", "error", err)
	}
	return nil
}

// Paths resolves the .env files to load.
func Paths(fromEnv string, defaultPaths ...string) []string {
	if strings.TrimSpace(fromEnv) == "" {
		return defaultPaths
	}

	return utils.SplitList(fromEnv)
}

func isLocal(env string) bool {
	return env == "local" || env == ""
}
