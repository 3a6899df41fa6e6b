// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quantumsignals/internal/signal"
)

// Storage backends for progress persistence.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds all settings. Every field can be set through its QSIGNALS_*
// variable or a .env file; command-line flags override both.
type Config struct {
	// Persistence
	DBPath        string `env:"QSIGNALS_DB"`
	Storage       string `env:"QSIGNALS_STORAGE" envDefault:"sqlite"`
	RedisAddr     string `env:"QSIGNALS_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"QSIGNALS_REDIS_PASSWORD"`
	RedisDB       int    `env:"QSIGNALS_REDIS_DB" envDefault:"0"`

	// Journey
	CatalogPath   string        `env:"QSIGNALS_CATALOG"`
	GridSize      int           `env:"QSIGNALS_GRID_SIZE" envDefault:"32"`
	SeedMode      string        `env:"QSIGNALS_SEED_MODE" envDefault:"timestamped"`
	PointInterval time.Duration `env:"QSIGNALS_POINT_INTERVAL" envDefault:"1s"`

	// Remote collaborators; empty means the local database.
	SignalLogURL string `env:"QSIGNALS_SIGNAL_LOG_URL"`
	StatsURL     string `env:"QSIGNALS_STATS_URL"`

	// Server
	ListenAddr  string  `env:"QSIGNALS_LISTEN_ADDR" envDefault:":3000"`
	MetricsAddr string  `env:"QSIGNALS_METRICS_ADDR" envDefault:":9090"`
	Retention   int     `env:"QSIGNALS_RETENTION" envDefault:"100"`
	RateLimit   float64 `env:"QSIGNALS_RATE_LIMIT" envDefault:"5"`
	RateBurst   int     `env:"QSIGNALS_RATE_BURST" envDefault:"10"`

	// Observability
	LogLevel       string `env:"QSIGNALS_LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"QSIGNALS_LOG_FORMAT" envDefault:"text"`
	LogFile        string `env:"QSIGNALS_LOG_FILE"`
	ServiceName    string `env:"QSIGNALS_SERVICE_NAME" envDefault:"qsignals"`
	ZipkinEndpoint string `env:"QSIGNALS_ZIPKIN_ENDPOINT"`
}

// Load reads .env files (default ".env") into the process environment and
// parses the result. A missing .env file is not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}
	return cfg, nil
}

// FromMap parses settings from vars instead of the process environment.
func FromMap(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations, reporting every problem.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage {
	case StorageSQLite, StorageRedis, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("invalid QSIGNALS_STORAGE: %q (must be sqlite, redis or memory)", c.Storage))
	}
	if c.Storage == StorageRedis && c.RedisAddr == "" {
		errs = append(errs, errors.New("QSIGNALS_REDIS_ADDR is required for redis storage"))
	}
	if c.GridSize < 1 || c.GridSize > 128 {
		errs = append(errs, fmt.Errorf("invalid QSIGNALS_GRID_SIZE: %d (must be 1-128)", c.GridSize))
	}
	if _, err := signal.ParseSeedMode(c.SeedMode); err != nil {
		errs = append(errs, fmt.Errorf("invalid QSIGNALS_SEED_MODE: %w", err))
	}
	if c.PointInterval <= 0 {
		errs = append(errs, fmt.Errorf("invalid QSIGNALS_POINT_INTERVAL: %s (must be positive)", c.PointInterval))
	}
	if c.Retention < 1 {
		errs = append(errs, fmt.Errorf("invalid QSIGNALS_RETENTION: %d (must be >= 1)", c.Retention))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		errs = append(errs, errors.New("QSIGNALS_RATE_LIMIT and QSIGNALS_RATE_BURST must be >= 0"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid QSIGNALS_LOG_LEVEL: %w", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid QSIGNALS_LOG_FORMAT: %q (must be text or json)", c.LogFormat))
	}

	return errors.Join(errs...)
}

// Mode returns the parsed seed mode, defaulting to timestamped.
func (c *Config) Mode() signal.SeedMode {
	m, err := signal.ParseSeedMode(c.SeedMode)
	if err != nil {
		return signal.SeedTimestamped
	}
	return m
}
