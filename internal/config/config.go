// ABOUTME: Configuration loading and parsing for skiff
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete skiff configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Workers  WorkersConfig  `yaml:"workers"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	BcryptCost      int           `yaml:"bcrypt_cost"`
	DefaultTokenTTL time.Duration `yaml:"-"`
	MaxTokenTTL     time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	DefaultTokenTTLRaw string `yaml:"default_token_ttl"`
	MaxTokenTTLRaw     string `yaml:"max_token_ttl"`
}

// WorkersConfig holds worker pool configuration
type WorkersConfig struct {
	// PoolSize bounds concurrent hashing and SPF checks. Zero means
	// one worker per CPU.
	PoolSize int `yaml:"pool_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Auth.BcryptCost < 0 {
		return fmt.Errorf("auth.bcrypt_cost must not be negative")
	}

	if c.Workers.PoolSize < 0 {
		return fmt.Errorf("workers.pool_size must not be negative")
	}

	if c.Auth.MaxTokenTTL != 0 && c.Auth.DefaultTokenTTL > c.Auth.MaxTokenTTL {
		return fmt.Errorf("auth.default_token_ttl exceeds auth.max_token_ttl")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Auth.DefaultTokenTTLRaw != "" {
		cfg.Auth.DefaultTokenTTL, err = time.ParseDuration(cfg.Auth.DefaultTokenTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing default_token_ttl %q: %w", cfg.Auth.DefaultTokenTTLRaw, err)
		}
	}

	if cfg.Auth.MaxTokenTTLRaw != "" {
		cfg.Auth.MaxTokenTTL, err = time.ParseDuration(cfg.Auth.MaxTokenTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing max_token_ttl %q: %w", cfg.Auth.MaxTokenTTLRaw, err)
		}
	}

	return nil
}
