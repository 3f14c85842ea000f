package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config captures the environment driven settings of the application.
type Config struct {
	DBPath    string
	ExportDir string
	LogLevel  slog.Level
	LogFile   string
}

// Load reads configuration from the process environment, applying defaults
// for anything unset. All invalid values are reported together.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding config directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}

	cfg := Config{
		DBPath:    filepath.Join(cfgDir, "workhours", "workhours.db"),
		ExportDir: home,
		LogLevel:  slog.LevelInfo,
		LogFile:   filepath.Join(cfgDir, "workhours", "workhours.log"),
	}

	var invalid []string

	if v := strings.TrimSpace(getenv("WORKHOURS_DB")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(getenv("WORKHOURS_EXPORT_DIR")); v != "" {
		cfg.ExportDir = v
	}
	if v := strings.TrimSpace(getenv("WORKHOURS_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(getenv("WORKHOURS_LOG_LEVEL")); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err != nil {
			invalid = append(invalid, "WORKHOURS_LOG_LEVEL")
		} else {
			cfg.LogLevel = lvl
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}
