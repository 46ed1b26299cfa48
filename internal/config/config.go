// Package config provides configuration management for the console and the
// development API server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultAPIBaseURL      = "http://localhost:3000"
	DefaultPageSize        = 10
	DefaultRequestTimeout  = time.Duration(0)
	DefaultLogLevel        = "info"
	DefaultServerPort      = 3000
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMetricsEnabled  = true
	DefaultRateLimitPerMin = 0
)

// EnvPrefix is prepended to every configuration key to form its environment
// variable name.
const EnvPrefix = "APP"

// Configuration keys, as used in a config file.
const (
	KeyAPIBaseURL      = "api_base_url"
	KeyPageSize        = "page_size"
	KeyRequestTimeout  = "request_timeout"
	KeyLogLevel        = "log_level"
	KeyServerPort      = "server_port"
	KeyShutdownTimeout = "shutdown_timeout"
	KeyMetricsEnabled  = "metrics_enabled"
	KeyRateLimitPerMin = "rate_limit_per_min"
	KeySeedFile        = "seed_file"
)

// Environment variable names.
const (
	EnvConfigFile      = "APP_CONFIG_FILE"
	EnvAPIBaseURL      = "APP_API_BASE_URL"
	EnvPageSize        = "APP_PAGE_SIZE"
	EnvRequestTimeout  = "APP_REQUEST_TIMEOUT"
	EnvLogLevel        = "APP_LOG_LEVEL"
	EnvServerPort      = "APP_SERVER_PORT"
	EnvShutdownTimeout = "APP_SHUTDOWN_TIMEOUT"
	EnvMetricsEnabled  = "APP_METRICS_ENABLED"
	EnvRateLimitPerMin = "APP_RATE_LIMIT_PER_MIN"
	EnvSeedFile        = "APP_SEED_FILE"
)

// Config holds the application configuration.
type Config struct {
	// Console settings.
	APIBaseURL     string
	PageSize       int
	RequestTimeout time.Duration // 0 = no timeout beyond the caller's context.

	LogLevel string

	// Development server settings.
	ServerPort      int
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
	RateLimitPerMin int // 0 = disabled.
	SeedFile        string
}

// Validation errors.
var (
	ErrInvalidAPIBaseURL      = errors.New("API base URL must be an absolute http(s) URL")
	ErrInvalidPageSize        = errors.New("page size must be at least 1")
	ErrInvalidRequestTimeout  = errors.New("request timeout must not be negative")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidServerPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrInvalidRateLimit       = errors.New("rate limit must not be negative")
)

// Load reads configuration from the file named by APP_CONFIG_FILE, if any,
// and from environment variables. Environment variables have priority over
// the file, which has priority over default values.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvConfigFile))
}

// LoadFile is like Load but reads the given YAML file. An empty path skips
// the file.
func LoadFile(path string) (*Config, error) {
	v, err := readViper(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := decodeConsole(v, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := decodeServer(v, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadConsole is like Load but reads and validates only the admin console
// settings. Development server settings keep their defaults.
func LoadConsole() (*Config, error) {
	return LoadConsoleFile(os.Getenv(EnvConfigFile))
}

// LoadConsoleFile is like LoadConsole but reads the given YAML file.
func LoadConsoleFile(path string) (*Config, error) {
	v, err := readViper(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:      DefaultServerPort,
		ShutdownTimeout: DefaultShutdownTimeout,
		MetricsEnabled:  DefaultMetricsEnabled,
		RateLimitPerMin: DefaultRateLimitPerMin,
	}
	if err := decodeConsole(v, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.ValidateConsole(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// readViper returns a viper instance with path loaded when it is set.
func readViper(path string) (*viper.Viper, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	return v, nil
}

// newViper returns a viper instance bound to the APP_ environment with
// defaults registered for every key.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyAPIBaseURL, DefaultAPIBaseURL)
	v.SetDefault(KeyPageSize, DefaultPageSize)
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeout)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyServerPort, DefaultServerPort)
	v.SetDefault(KeyShutdownTimeout, DefaultShutdownTimeout)
	v.SetDefault(KeyMetricsEnabled, DefaultMetricsEnabled)
	v.SetDefault(KeyRateLimitPerMin, DefaultRateLimitPerMin)
	v.SetDefault(KeySeedFile, "")

	return v
}

// decodeConsole fills the admin console settings from raw viper values.
// Values are parsed strictly: a malformed number or duration is an error
// instead of a zero value.
func decodeConsole(v *viper.Viper, cfg *Config) error {
	cfg.APIBaseURL = cast.ToString(v.Get(KeyAPIBaseURL))
	cfg.LogLevel = cast.ToString(v.Get(KeyLogLevel))

	var err error
	if cfg.PageSize, err = cast.ToIntE(v.Get(KeyPageSize)); err != nil {
		return fmt.Errorf("parsing %s: %w", EnvPageSize, err)
	}
	if cfg.RequestTimeout, err = cast.ToDurationE(v.Get(KeyRequestTimeout)); err != nil {
		return fmt.Errorf("parsing %s: %w", EnvRequestTimeout, err)
	}

	return nil
}

// decodeServer fills the development server settings from raw viper values.
func decodeServer(v *viper.Viper, cfg *Config) error {
	cfg.SeedFile = cast.ToString(v.Get(KeySeedFile))

	var err error
	if cfg.ServerPort, err = cast.ToIntE(v.Get(KeyServerPort)); err != nil {
		return fmt.Errorf("parsing %s: %w", EnvServerPort, err)
	}
	if cfg.ShutdownTimeout, err = cast.ToDurationE(v.Get(KeyShutdownTimeout)); err != nil {
		return fmt.Errorf("parsing %s: %w", EnvShutdownTimeout, err)
	}
	if cfg.MetricsEnabled, err = cast.ToBoolE(v.Get(KeyMetricsEnabled)); err != nil {
		return fmt.Errorf("parsing %s: %w", EnvMetricsEnabled, err)
	}
	if cfg.RateLimitPerMin, err = cast.ToIntE(v.Get(KeyRateLimitPerMin)); err != nil {
		return fmt.Errorf("parsing %s: %w", EnvRateLimitPerMin, err)
	}

	return nil
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if err := c.ValidateConsole(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return nil
}

// ValidateConsole checks only the settings the admin console reads.
func (c *Config) ValidateConsole() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidAPIBaseURL
	}

	if c.PageSize < 1 {
		return ErrInvalidPageSize
	}

	if c.RequestTimeout < 0 {
		return ErrInvalidRequestTimeout
	}

	if !ValidLogLevel(c.LogLevel) {
		return ErrInvalidLogLevel
	}

	return nil
}

// validateServer validates development server configuration.
func (c *Config) validateServer() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return ErrInvalidServerPort
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	if c.RateLimitPerMin < 0 {
		return ErrInvalidRateLimit
	}

	return nil
}

// ValidLogLevel reports whether level is a supported log level.
func ValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
