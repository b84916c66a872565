package config

import (
	"os"
	"strconv"
)

// loadFromEnv overrides config from MALLA_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("MALLA_CURRICULUM"); v != "" {
		cfg.Curriculum = v
	}
	if v := os.Getenv("MALLA_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("MALLA_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("MALLA_REDIS_URL"); v != "" {
		cfg.Storage.RedisURL = v
	}
	if v := os.Getenv("MALLA_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("MALLA_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("MALLA_NOTICE_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Notice.DelayMS = n
		}
	}
	if v := os.Getenv("MALLA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MALLA_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
