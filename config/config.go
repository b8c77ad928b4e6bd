package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Session storage backends
const (
	SessionBackendSQLite = "sqlite"
	SessionBackendMemory = "memory"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	API           APIConfig
	Server        ServerConfig
	Session       SessionConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

// APIConfig describes the platform REST API this client talks to
type APIConfig struct {
	BaseURL            string
	TimeoutSeconds     int
	LoginURL           string
	FallbackEnabled    bool
	HealthWaitAttempts int
}

// ServerConfig is the local dashboard server
type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
	DashboardToken string
	ViewTTLSeconds int
}

type SessionConfig struct {
	Backend string
	DBPath  string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint string
	ServiceName      string
	ServiceNamespace string
	ServiceVersion   string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("API_BASE_URL", "http://localhost:8000/api/v1")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 0) // transport default
	v.SetDefault("LOGIN_URL", "/login")
	v.SetDefault("FALLBACK_ENABLED", true)
	v.SetDefault("HEALTH_WAIT_ATTEMPTS", 5)
	v.SetDefault("PORT", "8090")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DASHBOARD_TOKEN", "")
	v.SetDefault("VIEW_CACHE_TTL_SECONDS", 900)
	v.SetDefault("SESSION_BACKEND", SessionBackendSQLite)
	v.SetDefault("SESSION_DB_PATH", defaultSessionPath())
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "supercoach-admin")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "supercoach")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("PROFILING_ENABLED", false)
	v.SetDefault("PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		API: APIConfig{
			BaseURL:            strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			TimeoutSeconds:     v.GetInt("HTTP_TIMEOUT_SECONDS"),
			LoginURL:           v.GetString("LOGIN_URL"),
			FallbackEnabled:    v.GetBool("FALLBACK_ENABLED"),
			HealthWaitAttempts: v.GetInt("HEALTH_WAIT_ATTEMPTS"),
		},
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
			DashboardToken: v.GetString("DASHBOARD_TOKEN"),
			ViewTTLSeconds: v.GetInt("VIEW_CACHE_TTL_SECONDS"),
		},
		Session: SessionConfig{
			Backend: strings.ToLower(v.GetString("SESSION_BACKEND")),
			DBPath:  v.GetString("SESSION_DB_PATH"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint: v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:      v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace: v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:   v.GetString("O11Y_SERVICE_VERSION"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("PROFILING_ENABLED"),
			Endpoint:              v.GetString("PROFILING_ENDPOINT"),
			SampleTypes:           v.GetString("PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must not be negative")
	}

	switch c.Session.Backend {
	case SessionBackendSQLite:
		if c.Session.DBPath == "" {
			return fmt.Errorf("SESSION_DB_PATH is required for the sqlite session backend")
		}
	case SessionBackendMemory:
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", SessionBackendSQLite, SessionBackendMemory, c.Session.Backend)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.ViewTTLSeconds < 0 {
		return fmt.Errorf("VIEW_CACHE_TTL_SECONDS must not be negative")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

func splitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "supercoach-session.db"
	}
	return filepath.Join(dir, "supercoach-admin", "session.db")
}
