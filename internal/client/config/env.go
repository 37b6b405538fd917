package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/civicwatch/internal/flagx"
)

const (
	EnvAPIURL    = "CIVIC_API_URL"
	EnvDBPath    = "CIVIC_DB_PATH"
	EnvLogFormat = "CIVIC_LOG_FORMAT"
)

// parseEnv overlays cfg with CIVIC_* variables. A dotenv file named by -e or
// -env is loaded first; it never overrides variables already set.
func parseEnv(cfg *Config, args []string) error {
	if path := flagx.EnvFilePath(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	if v, ok := os.LookupEnv(EnvAPIURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvDBPath); ok && v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok && v != "" {
		cfg.LogFormat = v
	}
	return nil
}
