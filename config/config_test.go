package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "bonusplan.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "standard", cfg.Policy.Default)
	assert.Empty(t, cfg.Benchmarks.CSVPath)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9090
store:
  path: ":memory:"
log:
  level: debug
  format: console
benchmarks:
  csv_path: /data/benchmarks.csv
policy:
  default: conservative
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "/data/benchmarks.csv", cfg.Benchmarks.CSVPath)
	assert.Equal(t, "conservative", cfg.Policy.Default)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BONUSPLAN_SERVER_PORT", "7070")
	t.Setenv("BONUSPLAN_LOG_LEVEL", "warn")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BONUSPLAN_POLICY_PATH=/etc/policy.yaml\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("BONUSPLAN_POLICY_PATH") })

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "/etc/policy.yaml", cfg.Policy.Path)
}

func TestInitLogger(t *testing.T) {
	original := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(original) })

	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotSame(t, original, zap.L())

	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
