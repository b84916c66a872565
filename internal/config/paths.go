package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ProjectFileName is the per-project config file name.
const ProjectFileName = "malla.toml"

// UserConfigDir returns the malla directory under the user config home.
func UserConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return ""
		}
		base = dir
	}
	return filepath.Join(base, "malla")
}

func findUserConfigFile() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return existing(filepath.Join(dir, ProjectFileName))
}

func findProjectConfigFile(dir string) string {
	return existing(filepath.Join(dir, ProjectFileName))
}

func existing(path string) string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// expandPath expands ~ and environment variables in p.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
