// Package config loads tool configuration from YAML, an optional .env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"curve-lab/internal/domain"
	"curve-lab/internal/logging"
	"curve-lab/internal/optimize"
)

// Environment overrides.
const (
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFormat     = "LOG_FORMAT"
	EnvPostgresDSN   = "POSTGRES_DSN"
	EnvClickHouseDSN = "CLICKHOUSE_DSN"
	EnvSQLitePath    = "SQLITE_PATH"
	EnvBacktestMode  = "BACKTEST_MODE"
)

// Config is the complete tool configuration.
type Config struct {
	Backtest domain.BacktestConfig `yaml:"backtest"`
	Optimize OptimizeConfig        `yaml:"optimize"`
	Storage  StorageConfig         `yaml:"storage"`
	Log      LogConfig             `yaml:"log"`
	Metrics  MetricsConfig         `yaml:"metrics"`
}

// OptimizeConfig controls grid searches.
type OptimizeConfig struct {
	Objective optimize.Objective `yaml:"objective"`
	Workers   int                `yaml:"workers"` // 0 = one per CPU
	Grid      optimize.Grid      `yaml:"grid"`
}

// StorageConfig selects persistence backends. Empty values disable a backend.
type StorageConfig struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickHouseDSN string `yaml:"clickhouse_dsn"`
	SQLitePath    string `yaml:"sqlite_path"` // file path or ":memory:"
}

// LogConfig controls logger output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the listener
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Backtest: domain.DefaultBacktestConfig()}
	setDefaults(cfg)
	return cfg
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. Variables from envFiles (default ".env") are loaded
// first but never replace variables already set. Missing env files are ignored;
// an empty path skips the YAML file.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: read env file: %w", err)
	}

	cfg := &Config{Backtest: domain.DefaultBacktestConfig()}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv(EnvPostgresDSN); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv(EnvClickHouseDSN); v != "" {
		cfg.Storage.ClickHouseDSN = v
	}
	if v := os.Getenv(EnvSQLitePath); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv(EnvBacktestMode); v != "" {
		cfg.Backtest.Mode = domain.Mode(v)
	}
}

func setDefaults(cfg *Config) {
	if cfg.Optimize.Objective == "" {
		cfg.Optimize.Objective = optimize.ObjectiveSharpe
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = logging.FormatText
	}
}

// Validate checks the backtest parameters and tool settings.
func (c *Config) Validate() error {
	if err := c.Backtest.Validate(); err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	if !c.Optimize.Objective.IsValid() {
		return fmt.Errorf("optimize: unknown objective %q", c.Optimize.Objective)
	}
	if c.Optimize.Workers < 0 {
		return errors.New("optimize: workers must not be negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Log.Format != logging.FormatText && c.Log.Format != logging.FormatJSON {
		return fmt.Errorf("log: unknown format %q", c.Log.Format)
	}
	return nil
}
