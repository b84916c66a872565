package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Options controls where Load looks for configuration.
type Options struct {
	// File is an explicit config file. It replaces the project file and
	// must exist.
	File string

	// Dir is the project directory searched for malla.toml and .env.
	// Defaults to the working directory.
	Dir string
}

// Load builds the configuration in priority order:
// 1. Defaults
// 2. .env in the project directory (does not override the environment)
// 3. User config file ($XDG_CONFIG_HOME/malla/malla.toml)
// 4. Project config file (malla.toml in Dir) or the explicit File
// 5. MALLA_* environment variables
func Load(opts Options) (*Config, error) {
	cfg := Default()

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}

	if err := loadDotEnv(filepath.Join(dir, ".env")); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if userFile := findUserConfigFile(); userFile != "" {
		if err := loadConfigFile(cfg, userFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userFile, err)
		}
	}

	if opts.File != "" {
		if err := loadConfigFile(cfg, opts.File); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", opts.File, err)
		}
	} else if projectFile := findProjectConfigFile(dir); projectFile != "" {
		if err := loadConfigFile(cfg, projectFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectFile, err)
		}
	}

	loadFromEnv(cfg)
	finalize(cfg, dir)

	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// finalize expands paths and makes the curriculum path absolute relative
// to the project directory.
func finalize(cfg *Config, dir string) {
	cfg.Curriculum = expandPath(cfg.Curriculum)
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Export.Dir = expandPath(cfg.Export.Dir)
	cfg.Log.File = expandPath(cfg.Log.File)

	if cfg.Curriculum != "" && !filepath.IsAbs(cfg.Curriculum) {
		cfg.Curriculum = filepath.Join(dir, cfg.Curriculum)
	}
}
