package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	UsersAPI  UsersAPIConfig
	Session   SessionConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	UI        UIConfig
	MockAPI   MockAPIConfig
	Logger    LoggerConfig
}

// AppConfig holds configuration for the console HTTP server
type AppConfig struct {
	Env                    string `mapstructure:"APP_ENV"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// UsersAPIConfig points at the remote users collection
type UsersAPIConfig struct {
	BaseURL        string `mapstructure:"USERS_API_BASE_URL"`
	TimeoutSeconds int    `mapstructure:"USERS_API_TIMEOUT_SECONDS"`
}

// SessionConfig holds configuration for console sessions
type SessionConfig struct {
	Backend      string `mapstructure:"SESSION_BACKEND"` // memory or redis
	TTLSeconds   int    `mapstructure:"SESSION_TTL_SECONDS"`
	CookieName   string `mapstructure:"SESSION_COOKIE_NAME"`
	CookieSecure bool   `mapstructure:"SESSION_COOKIE_SECURE"`
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
}

// RateLimitConfig holds configuration for the console rate limiter
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond int  `mapstructure:"RATE_LIMIT_REQUESTS_PER_SECOND"`
	BurstCapacity     int  `mapstructure:"RATE_LIMIT_BURST_CAPACITY"`
}

// UIConfig holds presentation defaults for new sessions
type UIConfig struct {
	DefaultView  string `mapstructure:"UI_DEFAULT_VIEW"`
	DefaultTheme string `mapstructure:"UI_DEFAULT_THEME"`
}

// MockAPIConfig holds configuration for the development users API
type MockAPIConfig struct {
	Port               string   `mapstructure:"MOCKAPI_PORT"`
	DBDriver           string   `mapstructure:"MOCKAPI_DB_DRIVER"` // sqlite or postgres
	DBDSN              string   `mapstructure:"MOCKAPI_DB_DSN"`
	Seed               bool     `mapstructure:"MOCKAPI_SEED"`
	CORSOrigins        []string `mapstructure:"MOCKAPI_CORS_ORIGINS"`
	RateLimitPerMinute int      `mapstructure:"MOCKAPI_RATE_LIMIT_PER_MINUTE"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv() // Read from environment variables

	// Set defaults first
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.App.Env = v.GetString("APP_ENV")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.UsersAPI.BaseURL = v.GetString("USERS_API_BASE_URL")
	config.UsersAPI.TimeoutSeconds = v.GetInt("USERS_API_TIMEOUT_SECONDS")

	config.Session.Backend = strings.ToLower(v.GetString("SESSION_BACKEND"))
	config.Session.TTLSeconds = v.GetInt("SESSION_TTL_SECONDS")
	config.Session.CookieName = v.GetString("SESSION_COOKIE_NAME")
	config.Session.CookieSecure = v.GetBool("SESSION_COOKIE_SECURE")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetInt("RATE_LIMIT_REQUESTS_PER_SECOND")
	config.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST_CAPACITY")

	config.UI.DefaultView = strings.ToLower(v.GetString("UI_DEFAULT_VIEW"))
	config.UI.DefaultTheme = strings.ToLower(v.GetString("UI_DEFAULT_THEME"))

	config.MockAPI.Port = v.GetString("MOCKAPI_PORT")
	config.MockAPI.DBDriver = strings.ToLower(v.GetString("MOCKAPI_DB_DRIVER"))
	config.MockAPI.DBDSN = v.GetString("MOCKAPI_DB_DSN")
	config.MockAPI.Seed = v.GetBool("MOCKAPI_SEED")
	config.MockAPI.CORSOrigins = splitList(v.GetString("MOCKAPI_CORS_ORIGINS"))
	config.MockAPI.RateLimitPerMinute = v.GetInt("MOCKAPI_RATE_LIMIT_PER_MINUTE")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("USERS_API_BASE_URL", "https://jsonplaceholder.typicode.com")
	v.SetDefault("USERS_API_TIMEOUT_SECONDS", 10)

	v.SetDefault("SESSION_BACKEND", "memory")
	v.SetDefault("SESSION_TTL_SECONDS", 1800)
	v.SetDefault("SESSION_COOKIE_NAME", "console_session")
	v.SetDefault("SESSION_COOKIE_SECURE", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 20)
	v.SetDefault("RATE_LIMIT_BURST_CAPACITY", 40)

	v.SetDefault("UI_DEFAULT_VIEW", "table")
	v.SetDefault("UI_DEFAULT_THEME", "light")

	v.SetDefault("MOCKAPI_PORT", "3001")
	v.SetDefault("MOCKAPI_DB_DRIVER", "sqlite")
	v.SetDefault("MOCKAPI_DB_DSN", "file:users.db?_pragma=busy_timeout(5000)")
	v.SetDefault("MOCKAPI_SEED", true)
	v.SetDefault("MOCKAPI_CORS_ORIGINS", "*")
	v.SetDefault("MOCKAPI_RATE_LIMIT_PER_MINUTE", 300)

	// Logger defaults
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "user-console")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the console settings before anything is wired.
func (c *Config) Validate() error {
	var errs []error

	if c.App.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT is required"))
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be positive"))
	}

	u, err := url.Parse(c.UsersAPI.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("USERS_API_BASE_URL must be an absolute http(s) URL, got %q", c.UsersAPI.BaseURL))
	}
	if c.UsersAPI.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("USERS_API_TIMEOUT_SECONDS must be positive"))
	}

	switch c.Session.Backend {
	case "memory":
	case "redis":
		if c.Redis.Host == "" || c.Redis.Port == "" {
			errs = append(errs, errors.New("REDIS_HOST and REDIS_PORT are required for the redis session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be memory or redis, got %q", c.Session.Backend))
	}
	if c.Session.TTLSeconds <= 0 {
		errs = append(errs, errors.New("SESSION_TTL_SECONDS must be positive"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("SESSION_COOKIE_NAME is required"))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_REQUESTS_PER_SECOND must be positive"))
		}
		if c.RateLimit.BurstCapacity < c.RateLimit.RequestsPerSecond {
			errs = append(errs, errors.New("RATE_LIMIT_BURST_CAPACITY must be at least RATE_LIMIT_REQUESTS_PER_SECOND"))
		}
		if c.Session.Backend != "redis" && (c.Redis.Host == "" || c.Redis.Port == "") {
			errs = append(errs, errors.New("rate limiting needs REDIS_HOST and REDIS_PORT"))
		}
	}

	if c.UI.DefaultView != "table" && c.UI.DefaultView != "cards" {
		errs = append(errs, fmt.Errorf("UI_DEFAULT_VIEW must be table or cards, got %q", c.UI.DefaultView))
	}
	if c.UI.DefaultTheme != "light" && c.UI.DefaultTheme != "dark" {
		errs = append(errs, fmt.Errorf("UI_DEFAULT_THEME must be light or dark, got %q", c.UI.DefaultTheme))
	}

	return errors.Join(errs...)
}

// ValidateMockAPI checks the development users API settings.
func (c *Config) ValidateMockAPI() error {
	var errs []error

	if c.MockAPI.Port == "" {
		errs = append(errs, errors.New("MOCKAPI_PORT is required"))
	}
	switch c.MockAPI.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("MOCKAPI_DB_DRIVER must be sqlite or postgres, got %q", c.MockAPI.DBDriver))
	}
	if c.MockAPI.DBDSN == "" {
		errs = append(errs, errors.New("MOCKAPI_DB_DSN is required"))
	}
	if c.MockAPI.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("MOCKAPI_RATE_LIMIT_PER_MINUTE must not be negative"))
	}

	return errors.Join(errs...)
}
