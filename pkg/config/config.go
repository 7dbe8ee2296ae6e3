// Package config loads the optional tool configuration file. Flags override
// config values; a missing file simply yields defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for configuration when --config is not
// given.
const DefaultPath = ".sigsmoke.yaml"

// Config represents sigsmoke configuration options.
type Config struct {
	// Root is the application source tree checks run against.
	Root string `yaml:"root"`

	// SuiteDir is the directory scanned by `run --all`.
	SuiteDir string `yaml:"suite_dir"`

	// NoColor disables colored console output.
	NoColor bool `yaml:"no_color"`

	// LogLevel sets logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// Record enables writing run outcomes to the history database.
	Record bool `yaml:"record"`

	// HistoryDB is the path of the SQLite history database.
	HistoryDB string `yaml:"history_db"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Root:      ".",
		SuiteDir:  "suites",
		NoColor:   false,
		LogLevel:  "info",
		Record:    false,
		HistoryDB: ".sigsmoke/history.db",
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", path, err)
	}

	return cfg, nil
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level '%s'", c.LogLevel)
	}

	if c.Root == "" {
		return fmt.Errorf("root must not be empty")
	}
	if c.HistoryDB == "" && c.Record {
		return fmt.Errorf("record requires history_db to be set")
	}

	return nil
}
