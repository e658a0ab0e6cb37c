// Package config loads run configuration from an optional YAML file with
// environment overrides. A .env file in the working directory is honored
// the same way the original tooling honored DATA_DIR.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"power-band-lab/internal/dataset"
	"power-band-lab/internal/domain"
)

// Config holds all recognized options for a summarizer run.
type Config struct {
	DataDir   string `yaml:"data_dir"`
	DataFile  string `yaml:"data_file"`
	OutputDir string `yaml:"output_dir"`

	GroupingMode string `yaml:"grouping_mode"`
	MinBound     *int   `yaml:"min_bound"`
	MaxBound     *int   `yaml:"max_bound"`
	TopN         int    `yaml:"top_n"`

	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
	FeedURL       string `yaml:"feed_url"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		DataDir:      "./data",
		DataFile:     dataset.DefaultFileName,
		OutputDir:    "docs",
		GroupingMode: string(domain.GroupingBand),
		TopN:         10,
		LogLevel:     "info",
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty or the file does not exist), then
// environment variables. A .env file is loaded first if present.
func Load(path string) (*Config, error) {
	// Missing .env is fine; only explicit files are required to exist.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config YAML: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays recognized environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("DATA_FILE"); v != "" {
		c.DataFile = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("GROUPING_MODE"); v != "" {
		c.GroupingMode = v
	}
	if v := os.Getenv("MIN_BOUND"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinBound = &n
		}
	}
	if v := os.Getenv("MAX_BOUND"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxBound = &n
		}
	}
	if v := os.Getenv("TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TopN = n
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		c.ClickhouseDSN = v
	}
	if v := os.Getenv("FEED_URL"); v != "" {
		c.FeedURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks option values that cannot be defaulted around.
func (c *Config) Validate() error {
	if !domain.GroupingMode(c.GroupingMode).Valid() {
		return fmt.Errorf("unknown grouping_mode %q (want band, per_integer or integer_interval)", c.GroupingMode)
	}
	if c.MinBound != nil && c.MaxBound != nil && *c.MinBound > *c.MaxBound {
		return fmt.Errorf("min_bound %d exceeds max_bound %d", *c.MinBound, *c.MaxBound)
	}
	if c.TopN < 0 {
		return fmt.Errorf("top_n must not be negative, got %d", c.TopN)
	}
	return nil
}

// Mode returns the grouping mode as a typed value.
func (c *Config) Mode() domain.GroupingMode {
	return domain.GroupingMode(c.GroupingMode)
}

// DataPath returns the resolved path of the source dataset.
func (c *Config) DataPath() string {
	return filepath.Join(c.DataDir, c.DataFile)
}
