package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zeebo/assert"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
port: "9090"
write_timeout: 10s
request_logging: false
database_path: /tmp/results.db
log_level: debug
`)

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, cfg.Port, "9090")
	assert.Equal(t, cfg.WriteTimeout, 10*time.Second)
	assert.That(t, !cfg.RequestLogging)
	assert.Equal(t, cfg.DatabasePath, "/tmp/results.db")
	assert.Equal(t, cfg.LogLevel, "debug")

	// Unset fields keep their defaults.
	assert.Equal(t, cfg.ReadTimeout, 30*time.Second)
	assert.Equal(t, cfg.IdleTimeout, 120*time.Second)
}

func TestLoadConfigEnvExpansion(t *testing.T) {
	t.Setenv("BENCH_PORT", "7070")
	path := writeConfigFile(t, `
port: "${BENCH_PORT}"
database_path: "${BENCH_DB:fallback.db}"
`)

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, cfg.Port, "7070")
	assert.Equal(t, cfg.DatabasePath, "fallback.db")
}

func TestLoadConfigMissingEnv(t *testing.T) {
	path := writeConfigFile(t, `port: "${BENCH_MISSING_VAR}"`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEmptyPort(t *testing.T) {
	path := writeConfigFile(t, `port: ""`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
