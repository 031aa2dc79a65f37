package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/rps-cards/internal/config"
)

// loadWith builds the command after env is set, as viper reads env at construction
func loadWith(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	opts := &options{}
	cmd := newCmd(opts)
	require.NoError(t, cmd.ParseFlags(args))
	return opts.load(cmd.Flags())
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.yaml")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWith(t, "--config", missingConfig(t))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.False(t, cfg.Redis.Enabled())
	assert.Zero(t, cfg.Game.TurnTimeout)
}

func TestLoad_BarePortEnv(t *testing.T) {
	t.Setenv("PORT", "4000")

	cfg, err := loadWith(t, "--config", missingConfig(t))
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("RPS_PORT", "5000")
	t.Setenv("RPS_TURN_TIMEOUT", "15")

	cfg, err := loadWith(t, "--config", missingConfig(t))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 15, cfg.Game.TurnTimeout)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
redis:
  addr: "redis:6379"
`), 0o600))

	cfg, err := loadWith(t, "--config", path, "--port", "8000", "--redis-addr", "")
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_InvalidPort(t *testing.T) {
	_, err := loadWith(t, "--config", missingConfig(t), "--port", "70000")
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RPS_TURN_TIMEOUT=9\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("RPS_TURN_TIMEOUT") })

	loadEnvFiles(path, filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := loadWith(t, "--config", missingConfig(t))
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Game.TurnTimeout)
}
