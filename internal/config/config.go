package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings for the tally binary.
type Config struct {
	DatabasePath     string `yaml:"database_path"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
	UTCOffsetMinutes int    `yaml:"utc_offset_minutes"`
	DefaultCurrency  string `yaml:"default_currency"`
}

// DefaultConfig returns the settings used when no file or env var says
// otherwise. The database lives under ~/.tally.
func DefaultConfig() Config {
	dbPath := "tally.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".tally", "tally.db")
	}
	return Config{
		DatabasePath:    dbPath,
		LogLevel:        "warn",
		LogFormat:       "text",
		DefaultCurrency: "EUR",
	}
}

// Path returns the config file location: $TALLY_CONFIG, or
// ~/.tally/config.yaml.
func Path() string {
	if v := os.Getenv("TALLY_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".tally", "config.yaml")
}

// Load reads the YAML file at path over the defaults and then applies
// TALLY_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TALLY_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("TALLY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TALLY_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TALLY_UTC_OFFSET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.UTCOffsetMinutes = n
		}
	}
	if v := os.Getenv("TALLY_CURRENCY"); v != "" {
		cfg.DefaultCurrency = strings.ToUpper(v)
	}
}

// Validate rejects settings the binary cannot start with.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: invalid value %q (expected debug, info, warn or error)", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format: invalid value %q (expected text or json)", c.LogFormat)
	}
	if c.UTCOffsetMinutes < -14*60 || c.UTCOffsetMinutes > 14*60 {
		return fmt.Errorf("utc_offset_minutes: %d is outside -840..840", c.UTCOffsetMinutes)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	return nil
}
