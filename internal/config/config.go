// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Units   UnitsConfig   `yaml:"units"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// UnitsConfig selects the unit table.
type UnitsConfig struct {
	TableFile string `yaml:"table_file"` // Override table; empty means the built-in table
	Overwrite bool   `yaml:"overwrite"`  // Replace the built-in table with TableFile
}

// StoreConfig configures the quantity store.
type StoreConfig struct {
	Path string `yaml:"path"` // bbolt file; empty means <project>/.siunit/quantities.db
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// OutputConfig configures value formatting.
type OutputConfig struct {
	Precision int `yaml:"precision"` // Decimal places; -1 prints 15 significant digits
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // Print collected metrics after each command
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	cfg := Config{Output: OutputConfig{Precision: -1}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	SIUNIT_UNITS_TABLE_FILE  - Override unit table path
//	SIUNIT_UNITS_OVERWRITE   - Replace the built-in table (default: false)
//	SIUNIT_STORE_PATH        - Quantity store path (default: .siunit/quantities.db)
//	SIUNIT_LOG_LEVEL         - Log level: debug, info, warn, error (default: warn)
//	SIUNIT_LOG_FORMAT        - Log format: json or console (default: console)
//	SIUNIT_OUTPUT_PRECISION  - Decimal places, -1 for full precision (default: -1)
//	SIUNIT_METRICS_ENABLED   - Print metrics after each command (default: false)
func LoadFromEnv() (*Config, error) {
	cfg := Config{Output: OutputConfig{Precision: -1}}
	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadWithFallback loads path if it exists and falls back to environment
// variables otherwise. A config file is never required.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies SIUNIT_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Units configuration
	if v := os.Getenv("SIUNIT_UNITS_TABLE_FILE"); v != "" {
		cfg.Units.TableFile = v
	}
	if v := os.Getenv("SIUNIT_UNITS_OVERWRITE"); v != "" {
		cfg.Units.Overwrite = parseBool(v)
	}

	// Store configuration
	if v := os.Getenv("SIUNIT_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}

	// Logging configuration
	if v := os.Getenv("SIUNIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SIUNIT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Output configuration
	if v := os.Getenv("SIUNIT_OUTPUT_PRECISION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Output.Precision = n
		}
	}

	// Metrics configuration
	if v := os.Getenv("SIUNIT_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// Validate checks cfg after callers changed it, e.g. from command-line flags.
func (c *Config) Validate() error {
	if err := validate(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func validate(cfg *Config) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if cfg.Output.Precision < -1 || cfg.Output.Precision > 15 {
		return fmt.Errorf("output.precision must be between -1 and 15, got %d", cfg.Output.Precision)
	}

	if cfg.Units.Overwrite && cfg.Units.TableFile == "" {
		return fmt.Errorf("units.table_file is required when units.overwrite is enabled")
	}

	return nil
}
