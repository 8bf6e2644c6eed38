// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/holomush/tidewater/internal/events"
	"github.com/holomush/tidewater/internal/httpapi"
	"github.com/holomush/tidewater/internal/logging"
	"github.com/holomush/tidewater/internal/observability"
	"github.com/holomush/tidewater/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// LoggerFactory builds and installs the process logger.
	// Default: logging.SetDefault
	LoggerFactory func(format string, level slog.Level) (*slog.Logger, error)

	// Migrate applies pending migrations when auto_migrate is set.
	// Default: applyMigrations
	Migrate func(databaseURL string) error

	// Connect opens the database pool.
	// Default: store.Connect with store.DefaultConnectOptions
	Connect func(ctx context.Context, databaseURL string) (Database, error)

	// PublisherFactory creates the relationship event publisher.
	// Default: events.NewAMQPPublisher, or a NoopPublisher when url is empty
	PublisherFactory func(url, exchange string, logger *slog.Logger) (events.Publisher, error)

	// HTTPServerFactory creates the API server.
	// Default: httpapi.NewServer
	HTTPServerFactory func(addr string, handler http.Handler, logger *slog.Logger) Server

	// ObservabilityServerFactory creates the metrics and health server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, registry *prometheus.Registry, ready observability.ReadinessChecker, logger *slog.Logger) Server

	// Signals delivers shutdown signals. The returned func stops delivery.
	// Default: SIGINT and SIGTERM via signal.Notify
	Signals func() (<-chan os.Signal, func())
}

// Database is the subset of *pgxpool.Pool the serve command uses.
type Database interface {
	store.DB
	Ping(ctx context.Context) error
	Close()
}

// Server wraps the methods used from httpapi.Server and observability.Server.
type Server interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.LoggerFactory == nil {
		out.LoggerFactory = func(format string, level slog.Level) (*slog.Logger, error) {
			return logging.SetDefault(serviceName, version, format, level)
		}
	}
	if out.Migrate == nil {
		out.Migrate = applyMigrations
	}
	if out.Connect == nil {
		out.Connect = func(ctx context.Context, databaseURL string) (Database, error) {
			pool, err := store.Connect(ctx, databaseURL, store.DefaultConnectOptions())
			if err != nil {
				return nil, err
			}
			return pool, nil
		}
	}
	if out.PublisherFactory == nil {
		out.PublisherFactory = newPublisher
	}
	if out.HTTPServerFactory == nil {
		out.HTTPServerFactory = func(addr string, handler http.Handler, logger *slog.Logger) Server {
			return httpapi.NewServer(addr, handler, logger)
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, registry *prometheus.Registry, ready observability.ReadinessChecker, logger *slog.Logger) Server {
			return observability.NewServer(addr, registry, ready, logger)
		}
	}
	if out.Signals == nil {
		out.Signals = func() (<-chan os.Signal, func()) {
			ch := make(chan os.Signal, 1)
			signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
			return ch, func() { signal.Stop(ch) }
		}
	}
	return &out
}

func newPublisher(url, exchange string, logger *slog.Logger) (events.Publisher, error) {
	if url == "" {
		return events.NewNoopPublisher(logger), nil
	}
	p, err := events.NewAMQPPublisher(url, exchange)
	if err != nil {
		return nil, err
	}
	return p, nil
}
