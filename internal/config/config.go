// Package config loads malla settings from defaults, an optional .env
// file, TOML config files and MALLA_* environment variables. CLI flags are
// applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Defaults.
const (
	DefaultBackend        = BackendSQLite
	DefaultKey            = "mallaIDED:v1"
	DefaultExportFilename = "progreso-malla-idED.json"
	DefaultNoticeDelayMS  = 2400
	DefaultLogLevel       = "info"
)

// ErrUnknownBackend is returned for a storage backend malla does not know.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Config is the full malla configuration.
type Config struct {
	// Curriculum is the declaration file to load. Empty means the
	// embedded sample curriculum.
	Curriculum string `toml:"curriculum"`

	Storage StorageConfig `toml:"storage"`
	Export  ExportConfig  `toml:"export"`
	Notice  NoticeConfig  `toml:"notice"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects and addresses the progress medium.
type StorageConfig struct {
	Backend  string `toml:"backend"`
	DBPath   string `toml:"db_path"`
	RedisURL string `toml:"redis_url"`
	Key      string `toml:"key"`
}

// ExportConfig controls where exports are written by default.
type ExportConfig struct {
	Filename string `toml:"filename"`
	Dir      string `toml:"dir"`
}

// NoticeConfig controls the transient notification line.
type NoticeConfig struct {
	DelayMS int `toml:"delay_ms"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func setDefaults(cfg *Config) {
	cfg.Storage.Backend = DefaultBackend
	cfg.Storage.Key = DefaultKey
	cfg.Export.Filename = DefaultExportFilename
	cfg.Notice.DelayMS = DefaultNoticeDelayMS
	cfg.Log.Level = DefaultLogLevel
}

// Default returns a Config holding only default values.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// NoticeDelay returns how long a notification stays visible.
func (c *Config) NoticeDelay() time.Duration {
	if c.Notice.DelayMS <= 0 {
		return DefaultNoticeDelayMS * time.Millisecond
	}
	return time.Duration(c.Notice.DelayMS) * time.Millisecond
}

// Validate checks values that cannot be repaired by defaults.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return errors.New("storage.key must not be empty")
	}
	return nil
}
