// Package config loads the settings shared by every command from the
// environment and reads YAML run files.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"mifs/pkg/errors"
	"mifs/pkg/mi"
)

const (
	EnvBins      = "MIFS_BINS"
	EnvPrecision = "MIFS_PRECISION"
	EnvWorkers   = "MIFS_WORKERS"
	EnvLogLevel  = "MIFS_LOG_LEVEL"
	EnvLogFormat = "MIFS_LOG_FORMAT"
)

type Config struct {
	MI mi.Config

	// Workers bounds concurrent scoring, 0 means GOMAXPROCS
	Workers int

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment after merging an optional
// .env file from the working directory. Variables already set win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ConfigInvalid("error reading .env: %v", err), "failed to load environment")
	}
	return FromEnv()
}

// FromEnv reads configuration from the environment only
func FromEnv() (*Config, error) {
	bins, err := getEnvIntOrDefault(EnvBins, mi.DefaultBins)
	if err != nil {
		return nil, err
	}
	precision, err := getEnvIntOrDefault(EnvPrecision, mi.DefaultPrecision)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvIntOrDefault(EnvWorkers, 0)
	if err != nil {
		return nil, err
	}

	config := &Config{
		MI:        mi.Config{Bins: bins, Precision: precision},
		Workers:   workers,
		LogLevel:  strings.ToLower(getEnvOrDefault(EnvLogLevel, "info")),
		LogFormat: strings.ToLower(getEnvOrDefault(EnvLogFormat, "pretty")),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if err := c.MI.Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return errors.ConfigInvalid("number of workers must not be negative, got %d", c.Workers)
	}
	switch c.LogLevel {
	case "error", "info", "debug":
	default:
		return errors.ConfigInvalid("unknown log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "pretty", "json":
	default:
		return errors.ConfigInvalid("unknown log format %q", c.LogFormat)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid("%s must be an integer, got %q", key, value)
	}
	return n, nil
}
