package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	content := `
server:
  host: "127.0.0.1"
  port: 8080
  max_connections: 50
  allowed_origins:
    - "http://localhost:3000"
    - "https://example.com"

redis:
  addr: "redis:6379"
  password: "secret"
  db: 1

game:
  hand_size: 9
  turn_timeout: 20

security:
  rate_limit:
    max_per_second: 5
    max_per_minute: 30
    ban_duration: 120
  message_limit:
    max_per_second: 50
  chat_limit:
    max_per_second: 2
    max_per_minute: 60
    cooldown: 10

log:
  file: "/tmp/rps.log"
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, 50, cfg.Server.MaxConnections)
	assert.Len(t, cfg.Server.AllowedOrigins, 2)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 9, cfg.Game.HandSize)
	assert.Equal(t, 20*time.Second, cfg.Game.TurnTimeoutDuration())
	assert.Equal(t, 5, cfg.Security.RateLimit.MaxPerSecond)
	assert.Equal(t, 120*time.Second, cfg.Security.RateLimit.BanDurationTime())
	assert.Equal(t, 50, cfg.Security.MessageLimit.MaxPerSecond)
	assert.Equal(t, 60, cfg.Security.ChatLimit.MaxPerMinute)
	assert.Equal(t, "/tmp/rps.log", cfg.Log.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadOrDefault_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := LoadOrDefault("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "invalid: yaml: :::"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultMaxConnections, cfg.Server.MaxConnections)
	assert.Equal(t, 15, cfg.Game.HandSize)
	assert.Zero(t, cfg.Game.TurnTimeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.Empty(t, cfg.Log.File)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, time.Duration(0), cfg.Game.TurnTimeoutDuration())
	assert.Equal(t, 5*time.Second, cfg.Security.ChatLimit.CooldownDuration())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too low", func(c *Config) { c.Server.Port = -1 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"negative max connections", func(c *Config) { c.Server.MaxConnections = -5 }},
		{"zero hand size", func(c *Config) { c.Game.HandSize = 0 }},
		{"negative turn timeout", func(c *Config) { c.Game.TurnTimeout = -1 }},
		{"negative message rate", func(c *Config) { c.Security.MessageLimit.MaxPerSecond = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
