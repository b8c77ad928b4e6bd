package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		API:     APIConfig{BaseURL: "http://localhost:8000/api/v1"},
		Server:  ServerConfig{Port: "8090"},
		Session: SessionConfig{Backend: SessionBackendMemory},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name:     "development environment",
			config:   &Config{Server: ServerConfig{AppEnv: "development"}},
			expected: true,
		},
		{
			name:     "debug gin mode",
			config:   &Config{Server: ServerConfig{GinMode: "debug"}},
			expected: true,
		},
		{
			name:     "release mode",
			config:   &Config{Server: ServerConfig{GinMode: "release", AppEnv: "production"}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: ServerConfig{AppEnv: "production"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "staging"}}).IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{
			name:   "valid memory config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid sqlite config",
			mutate: func(c *Config) {
				c.Session = SessionConfig{Backend: SessionBackendSQLite, DBPath: "/tmp/session.db"}
			},
		},
		{
			name:     "missing base url",
			mutate:   func(c *Config) { c.API.BaseURL = "" },
			errorMsg: "API_BASE_URL is required",
		},
		{
			name:     "relative base url",
			mutate:   func(c *Config) { c.API.BaseURL = "/api/v1" },
			errorMsg: "must be an absolute URL",
		},
		{
			name:     "negative timeout",
			mutate:   func(c *Config) { c.API.TimeoutSeconds = -1 },
			errorMsg: "HTTP_TIMEOUT_SECONDS",
		},
		{
			name:     "sqlite without path",
			mutate:   func(c *Config) { c.Session = SessionConfig{Backend: SessionBackendSQLite} },
			errorMsg: "SESSION_DB_PATH is required",
		},
		{
			name:     "unknown backend",
			mutate:   func(c *Config) { c.Session.Backend = "redis" },
			errorMsg: "SESSION_BACKEND must be",
		},
		{
			name:     "profiling without endpoint",
			mutate:   func(c *Config) { c.Profiling.Enabled = true },
			errorMsg: "PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://coach.example.com/api/v1/")
	t.Setenv("SESSION_BACKEND", "MEMORY")
	t.Setenv("ALLOWED_CORS_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://coach.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 20, cfg.API.TimeoutSeconds)
	assert.True(t, cfg.API.FallbackEnabled)
	assert.Equal(t, "/login", cfg.API.LoginURL)
}
