// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads tidewater settings from defaults, a YAML file,
// the environment and command-line flags, in increasing priority.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Defaults.
const (
	DefaultHTTPAddr      = ":8080"
	DefaultMetricsAddr   = "127.0.0.1:9100"
	DefaultLogFormat     = "json"
	DefaultLogLevel      = "info"
	DefaultAMQPExchange  = "tidewater.events"
	DefaultSweepInterval = time.Minute
)

// Config holds every setting the server and CLI read.
type Config struct {
	HTTPAddr      string        `koanf:"http_addr"`
	MetricsAddr   string        `koanf:"metrics_addr"`
	DatabaseURL   string        `koanf:"database_url"`
	SecretKey     string        `koanf:"secret_key"`
	LogFormat     string        `koanf:"log_format"`
	LogLevel      string        `koanf:"log_level"`
	AMQPURL       string        `koanf:"amqp_url"`
	AMQPExchange  string        `koanf:"amqp_exchange"`
	CatalogPath   string        `koanf:"catalog_path"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	CORSOrigins   []string      `koanf:"cors_origins"`
	AutoMigrate   bool          `koanf:"auto_migrate"`
}

func defaults() map[string]any {
	return map[string]any{
		"http_addr":      DefaultHTTPAddr,
		"metrics_addr":   DefaultMetricsAddr,
		"log_format":     DefaultLogFormat,
		"log_level":      DefaultLogLevel,
		"amqp_exchange":  DefaultAMQPExchange,
		"sweep_interval": DefaultSweepInterval,
		"cors_origins":   []string{},
		"auto_migrate":   false,
	}
}

func invalid(format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").Errorf(format, args...)
}

// RequireDatabase checks the settings every database command needs.
func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return invalid("database_url is required (set TIDEWATER_DATABASE_URL or DATABASE_URL)")
	}
	return nil
}

// Validate checks the settings needed to serve.
func (c *Config) Validate() error {
	if err := c.RequireDatabase(); err != nil {
		return err
	}
	if c.SecretKey == "" {
		return invalid("secret_key is required (set TIDEWATER_SECRET_KEY or SECRET_KEY)")
	}
	if c.HTTPAddr == "" {
		return invalid("http_addr cannot be empty")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return invalid("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.SweepInterval <= 0 {
		return invalid("sweep_interval must be positive, got %s", c.SweepInterval)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, oops.Code("CONFIG_INVALID").With("log_level", c.LogLevel).Wrap(err)
	}
	return lvl, nil
}
