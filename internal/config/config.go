// Package config loads ledger settings from the environment. A .env file in
// the working directory, if present, is read first.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

type Config struct {
	File         string   `envconfig:"FILE" default:"accounting_data.json"`
	Backend      string   `envconfig:"BACKEND" default:"file"`
	DatabaseURL  string   `envconfig:"DATABASE_URL"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"transaction_posted"`
	HTTPAddr     string   `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel     string   `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads LEDGER_* variables. envPath optionally names a .env file that
// must exist; without it a missing ./.env is ignored. The result is not
// validated, so callers can apply overrides first and then call Validate.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("ledger", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.Backend = strings.ToLower(c.Backend)
	switch c.Backend {
	case BackendFile:
		if c.File == "" {
			return errors.New("LEDGER_FILE is required for the file backend")
		}
	case BackendPostgres, BackendSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("LEDGER_DATABASE_URL is required for the %s backend", c.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LEDGER_LOG_LEVEL: %w", err)
	}
	return nil
}

// Driver returns the database/sql driver name for SQL backends.
func (c *Config) Driver() string {
	if c.Backend == BackendSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// ConfigureLogger applies the configured level to the standard logrus logger.
func (c *Config) ConfigureLogger() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
