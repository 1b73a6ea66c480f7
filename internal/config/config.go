// Package config loads client settings from YAML files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the connection settings for a client instance.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Retry      RetryConfig      `yaml:"retry"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ConnectionConfig holds server address and auth settings.
type ConnectionConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	SSL        bool   `yaml:"ssl"`
	AuthToken  string `yaml:"auth_token"`
	Tenant     string `yaml:"tenant"`
	Database   string `yaml:"database"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// RetryConfig holds retry policy settings.
type RetryConfig struct {
	MaxAttempts  int `yaml:"max_attempts"`
	BaseDelayMS  int `yaml:"base_delay_ms"`
	RatePerSec   int `yaml:"rate_per_sec"`    // 0 = unlimited
	RateBurst    int `yaml:"rate_burst"`      // defaults to rate_per_sec
	MaxElapsedMS int `yaml:"max_elapsed_ms"`  // 0 = bounded by attempts only
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Defaults mirrored from the server's published client contract.
const (
	DefaultHost       = "localhost"
	DefaultPort       = 8000
	DefaultTenant     = "default_tenant"
	DefaultDatabase   = "default_database"
	DefaultTimeoutSec = 30
	DefaultAttempts   = 3
	DefaultBaseDelay  = 100 // milliseconds
)

// Load reads configuration from a YAML file, expanding ${VAR} references.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// FromEnv builds a Config from CHROMA_* environment variables,
// falling back to defaults for anything unset.
func FromEnv() Config {
	cfg := FromEnvOverlay()
	cfg.ApplyDefaults()
	return cfg
}

// FromEnvOverlay builds a Config from CHROMA_* environment variables
// only, leaving unset fields zero so callers can layer it over existing
// settings.
func FromEnvOverlay() Config {
	cfg := Config{
		Connection: ConnectionConfig{
			Host:      os.Getenv("CHROMA_HOST"),
			AuthToken: os.Getenv("CHROMA_API_KEY"),
			Tenant:    os.Getenv("CHROMA_TENANT"),
			Database:  os.Getenv("CHROMA_DATABASE"),
			SSL:       envBool("CHROMA_SSL"),
		},
		Logging: LoggingConfig{Level: os.Getenv("CHROMA_LOG_LEVEL")},
	}
	cfg.Connection.Port = envInt("CHROMA_PORT")
	cfg.Connection.TimeoutSec = envInt("CHROMA_TIMEOUT_SECONDS")
	cfg.Retry.MaxAttempts = envInt("CHROMA_MAX_RETRIES")
	return cfg
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Connection.Host == "" {
		c.Connection.Host = DefaultHost
	}
	if c.Connection.Port <= 0 {
		c.Connection.Port = DefaultPort
	}
	if c.Connection.Tenant == "" {
		c.Connection.Tenant = DefaultTenant
	}
	if c.Connection.Database == "" {
		c.Connection.Database = DefaultDatabase
	}
	if c.Connection.TimeoutSec <= 0 {
		c.Connection.TimeoutSec = DefaultTimeoutSec
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = DefaultAttempts
	}
	if c.Retry.BaseDelayMS <= 0 {
		c.Retry.BaseDelayMS = DefaultBaseDelay
	}
	if c.Retry.RateBurst <= 0 {
		c.Retry.RateBurst = c.Retry.RatePerSec
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Connection.Port <= 0 || c.Connection.Port > 65535 {
		return fmt.Errorf("connection.port must be between 1 and 65535, got %d", c.Connection.Port)
	}
	if c.Retry.MaxAttempts > 10 {
		return fmt.Errorf("retry.max_attempts must be at most 10, got %d", c.Retry.MaxAttempts)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", c.Logging.Level)
	}
	return nil
}

func envInt(name string) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func envBool(name string) bool {
	v := strings.ToLower(os.Getenv(name))
	return v == "1" || v == "true" || v == "yes"
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
