package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SALES_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data/sales.db", cfg.Storage.Path)
	assert.Equal(t, 500, cfg.Storage.BatchSize)
	assert.Equal(t, int64(33554432), cfg.Upload.MaxBytes)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 50.0, cfg.RateLimit.RPS)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SALES_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("SALES_SERVER_PORT", "9091")
	t.Setenv("SALES_LOGGING_LEVEL", "debug")
	t.Setenv("SALES_STORAGE_BATCH_SIZE", "100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9091, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 100, cfg.Storage.BatchSize)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: 9500\nlogging:\n  format: text\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("SALES_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9500, cfg.Server.Port)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level, "unset fields fall back to defaults")
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Setenv("SALES_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("SALES_LOGGING_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}
