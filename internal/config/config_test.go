package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, "https://jsonplaceholder.typicode.com", cfg.UsersAPI.BaseURL)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 1800, cfg.Session.TTLSeconds)
	assert.Equal(t, "table", cfg.UI.DefaultView)
	assert.Equal(t, "sqlite", cfg.MockAPI.DBDriver)
	assert.Equal(t, []string{"*"}, cfg.MockAPI.CORSOrigins)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateMockAPI())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("USERS_API_BASE_URL", "http://localhost:3001")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("UI_DEFAULT_VIEW", "cards")
	t.Setenv("MOCKAPI_CORS_ORIGINS", "http://localhost:8080, https://example.com ,")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "http://localhost:3001", cfg.UsersAPI.BaseURL)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "cards", cfg.UI.DefaultView)
	assert.Equal(t, []string{"http://localhost:8080", "https://example.com"}, cfg.MockAPI.CORSOrigins)
}

func TestLoadConfig_ProductionLoggerDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Logger.EnableSampling)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := "HTTP_PORT=7070\nSESSION_TTL_SECONDS=60\nUI_DEFAULT_THEME=dark\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.App.HTTPPort)
	assert.Equal(t, 60, cfg.Session.TTLSeconds)
	assert.Equal(t, "dark", cfg.UI.DefaultTheme)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"relative base url", func(c *Config) { c.UsersAPI.BaseURL = "/users" }, "USERS_API_BASE_URL"},
		{"zero timeout", func(c *Config) { c.UsersAPI.TimeoutSeconds = 0 }, "USERS_API_TIMEOUT_SECONDS"},
		{"unknown backend", func(c *Config) { c.Session.Backend = "file" }, "SESSION_BACKEND"},
		{"redis without host", func(c *Config) { c.Session.Backend = "redis"; c.Redis.Host = "" }, "REDIS_HOST"},
		{"empty cookie", func(c *Config) { c.Session.CookieName = "" }, "SESSION_COOKIE_NAME"},
		{"burst below rate", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.RequestsPerSecond = 10
			c.RateLimit.BurstCapacity = 5
		}, "RATE_LIMIT_BURST_CAPACITY"},
		{"bad view", func(c *Config) { c.UI.DefaultView = "grid" }, "UI_DEFAULT_VIEW"},
		{"bad theme", func(c *Config) { c.UI.DefaultTheme = "blue" }, "UI_DEFAULT_THEME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateMockAPI(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.MockAPI.DBDriver = "mysql"
	err = cfg.ValidateMockAPI()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MOCKAPI_DB_DRIVER")
}
