// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every JOBMATCH_* environment variable.
const EnvPrefix = "JOBMATCH"

// Database drivers selected from DatabaseURL.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the service configuration. Values come from an optional
// JSON/YAML file, overridden by environment variables.
type Config struct {
	// Server
	Port        int      `mapstructure:"port" json:"port,omitempty"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins,omitempty"`
	RateLimit   float64  `mapstructure:"rate_limit" json:"rate_limit,omitempty"` // requests per second per client, 0 disables
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst,omitempty"`

	// Storage
	DatabaseURL string        `mapstructure:"database_url" json:"database_url,omitempty"` // postgres://..., sqlite:path or file:path
	RedisURL    string        `mapstructure:"redis_url" json:"redis_url,omitempty"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl" json:"cache_ttl,omitempty"` // 0 disables pool caching

	// Engine
	Dims int `mapstructure:"dims" json:"dims,omitempty"`

	// Logging
	LogLevel   string `mapstructure:"log_level" json:"log_level,omitempty"`
	PrettyLogs bool   `mapstructure:"pretty_logs" json:"pretty_logs,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:        8080,
		CORSOrigins: []string{"*"},
		RateLimit:   10,
		RateBurst:   20,
		CacheTTL:    5 * time.Minute,
		Dims:        512,
		LogLevel:    "info",
	}
}

// Load reads configuration from path (optional) and the environment.
// JOBMATCH_<KEY> variables override file values; DATABASE_URL and REDIS_URL are
// also honoured without the prefix.
func Load(path string) (*Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("port", d.Port)
	v.SetDefault("cors_origins", d.CORSOrigins)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("rate_burst", d.RateBurst)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("redis_url", d.RedisURL)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("dims", d.Dims)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("pretty_logs", d.PrettyLogs)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database_url: %w", err)
	}
	if err := v.BindEnv("redis_url", EnvPrefix+"_REDIS_URL", "REDIS_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind redis_url: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'rate_limit' must be non-negative")
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("config error: 'rate_burst' must be non-negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache_ttl' must be non-negative")
	}
	if c.Dims < 0 {
		return fmt.Errorf("config error: 'dims' must be non-negative")
	}

	if c.DatabaseURL != "" && c.DatabaseDriver() == "" {
		return fmt.Errorf("config error: unsupported database_url scheme: %s", c.DatabaseURL)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		return fmt.Errorf("config error: unknown log_level %q", c.LogLevel)
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if len(result.CORSOrigins) == 0 {
		result.CORSOrigins = defaults.CORSOrigins
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}
	if result.RateBurst == 0 {
		result.RateBurst = defaults.RateBurst
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.Dims == 0 {
		result.Dims = defaults.Dims
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Bool fields cannot distinguish unset from false, so they are not merged.

	return result
}

// DatabaseDriver returns the driver implied by DatabaseURL, or "" when it is
// empty or unrecognised.
func (c *Config) DatabaseDriver() string {
	u := strings.ToLower(c.DatabaseURL)
	switch {
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(u, "sqlite:"), strings.HasPrefix(u, "file:"):
		return DriverSQLite
	default:
		return ""
	}
}

// SQLitePath returns the file path of a sqlite: or file: DatabaseURL.
func (c *Config) SQLitePath() string {
	u := c.DatabaseURL
	if len(u) >= len("sqlite:") && strings.EqualFold(u[:len("sqlite:")], "sqlite:") {
		return strings.TrimPrefix(u[len("sqlite:"):], "//")
	}
	return u
}
