// config/overlay.go
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvBaseURL  = "JOBGENIE_API_BASE_URL"
	EnvRedisURL = "JOBGENIE_REDIS_URL"
	EnvLogLevel = "JOBGENIE_LOG_LEVEL"
	EnvPort     = "JOBGENIE_PORT"
)

// OverlayEnv loads envFile (if present) into the process environment and
// applies the JOBGENIE_* variables on top of cfg.
func OverlayEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			// Missing .env should not kill startup
			return err
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisURL)); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logger.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	return nil
}
