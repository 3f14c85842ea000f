package config

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "workhours.db", filepath.Base(cfg.DBPath))
	assert.Equal(t, "workhours.log", filepath.Base(cfg.LogFile))
	assert.NotEmpty(t, cfg.ExportDir)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(envMap(map[string]string{
		"WORKHOURS_DB":         "/tmp/x.db",
		"WORKHOURS_EXPORT_DIR": " /tmp/out ",
		"WORKHOURS_LOG_LEVEL":  "debug",
		"WORKHOURS_LOG_FILE":   "/tmp/x.log",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "/tmp/out", cfg.ExportDir)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/tmp/x.log", cfg.LogFile)
}

func TestLoadInvalidLevel(t *testing.T) {
	_, err := load(envMap(map[string]string{"WORKHOURS_LOG_LEVEL": "loud"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKHOURS_LOG_LEVEL")
}

func TestLoadFromProcessEnv(t *testing.T) {
	t.Setenv("WORKHOURS_DB", "/tmp/env.db")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
}
