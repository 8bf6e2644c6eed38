// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/tidewater/internal/account"
	accountpg "github.com/holomush/tidewater/internal/account/postgres"
	"github.com/holomush/tidewater/internal/catalog"
	"github.com/holomush/tidewater/internal/config"
	"github.com/holomush/tidewater/internal/events"
	"github.com/holomush/tidewater/internal/httpapi"
	"github.com/holomush/tidewater/internal/observability"
	"github.com/holomush/tidewater/internal/player"
	playerpg "github.com/holomush/tidewater/internal/player/postgres"
	"github.com/holomush/tidewater/internal/projection"
	projectionpg "github.com/holomush/tidewater/internal/projection/postgres"
	"github.com/holomush/tidewater/internal/relationship"
	relationshippg "github.com/holomush/tidewater/internal/relationship/postgres"
	"github.com/holomush/tidewater/internal/store"
)

const (
	serviceName     = "tidewater"
	shutdownTimeout = 5 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API together with the metrics and health server
and the background sweeper that removes expired effects.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, nil)
		},
	}

	fs := cmd.Flags()
	fs.String("http-addr", config.DefaultHTTPAddr, "HTTP API listen address")
	fs.String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	addDatabaseFlag(fs)
	fs.String("log-format", config.DefaultLogFormat, "log format (json or text)")
	fs.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.String("amqp-url", "", "RabbitMQ URL for friend events (empty = log only)")
	fs.String("amqp-exchange", config.DefaultAMQPExchange, "topic exchange friend events are published to")
	fs.String("catalog-path", "", "item catalog YAML file (default: built-in catalog)")
	fs.Duration("sweep-interval", config.DefaultSweepInterval, "how often expired effects are removed")
	fs.StringSlice("cors-origins", nil, "allowed browser origins, glob patterns")
	fs.Bool("auto-migrate", false, "apply pending migrations before serving")

	return cmd
}

// runServeWithDeps starts the API with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deps = deps.withDefaults()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return oops.With("operation", "validate configuration").Wrap(err)
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger, err := deps.LoggerFactory(cfg.LogFormat, level)
	if err != nil {
		return oops.With("operation", "set up logging").Wrap(err)
	}

	logger.Info("starting tidewater",
		"http_addr", cfg.HTTPAddr,
		"metrics_addr", cfg.MetricsAddr,
		"log_format", cfg.LogFormat,
	)

	if cfg.AutoMigrate {
		if err := deps.Migrate(cfg.DatabaseURL); err != nil {
			return oops.Code("AUTO_MIGRATE_FAILED").With("operation", "auto-migrate").Wrap(err)
		}
		logger.Info("migrations applied")
	}

	db, err := deps.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()
	logger.Info("connected to database")

	items, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	logger.Info("item catalog loaded", "version", items.Version(), "items", items.Len())

	publisher, err := deps.PublisherFactory(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		return oops.Code("EVENTS_INIT_FAILED").With("operation", "create event publisher").Wrap(err)
	}
	defer func() {
		if closeErr := publisher.Close(); closeErr != nil {
			logger.Warn("error closing event publisher", "error", closeErr)
		}
	}()

	svc, players, err := buildServices(cfg, db, items, publisher, logger)
	if err != nil {
		return err
	}

	router, err := httpapi.NewRouter(svc, httpapi.Options{CORSOrigins: cfg.CORSOrigins, Logger: logger})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sweeper, err := player.NewSweeper(players, cfg.SweepInterval, logger)
	if err != nil {
		return err
	}
	sweeper.Start(ctx)
	defer sweeper.Stop()

	shutdownCtx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), shutdownTimeout)
	}

	var obsServer Server
	if cfg.MetricsAddr != "" {
		registry := observability.NewRegistry(version, commit,
			account.RegisterMetrics,
			relationship.RegisterMetrics,
			player.RegisterMetrics,
			httpapi.RegisterMetrics,
		)
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, registry, observability.PingReadiness(db), logger)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability", logger)
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	apiServer := deps.HTTPServerFactory(cfg.HTTPAddr, router, logger)
	apiErrChan, err := apiServer.Start()
	if err != nil {
		if obsServer != nil {
			sctx, scancel := shutdownCtx()
			defer scancel()
			if stopErr := obsServer.Stop(sctx); stopErr != nil {
				logger.Warn("failed to stop observability server during cleanup", "error", stopErr)
			}
		}
		return oops.With("operation", "start api server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api", logger)

	sigChan, stopSignals := deps.Signals()
	defer stopSignals()

	cmd.Println("Tidewater started")
	logger.Info("tidewater ready", "http_addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")
	sctx, scancel := shutdownCtx()
	defer scancel()

	if err := apiServer.Stop(sctx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(sctx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// loadCatalog reads path, or the built-in catalog when path is empty.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// newAccountService wires the account service to PostgreSQL.
func newAccountService(cfg *config.Config, db store.DB, items *catalog.Catalog, logger *slog.Logger) (*account.Service, error) {
	tokens, err := account.NewTokenCodec([]byte(cfg.SecretKey))
	if err != nil {
		return nil, err
	}
	starter := account.StarterKit{
		Stats:       account.DefaultStarterStats(),
		Definitions: items.StarterDefinitions(),
	}
	return account.NewService(
		accountpg.NewAccountRepository(db),
		account.NewArgon2idHasher(),
		tokens,
		starter,
		account.WithLogger(logger),
	)
}

// buildServices wires every service the API needs. The player service is
// returned separately for the sweeper.
func buildServices(cfg *config.Config, db store.DB, items *catalog.Catalog, publisher events.Publisher, logger *slog.Logger) (httpapi.Services, *player.Service, error) {
	tx := store.NewTransactor(db)

	accounts, err := newAccountService(cfg, db, items, logger)
	if err != nil {
		return httpapi.Services{}, nil, err
	}

	friends, err := relationship.NewService(
		relationshippg.NewRelationshipRepository(db),
		tx,
		relationship.WithLogger(logger),
		relationship.WithPublisher(publisher),
	)
	if err != nil {
		return httpapi.Services{}, nil, err
	}

	projections, err := projection.NewService(projectionpg.NewReader(db), tx, logger)
	if err != nil {
		return httpapi.Services{}, nil, err
	}

	players, err := player.NewService(player.Repositories{
		Stats:     playerpg.NewStatsRepository(db),
		Inventory: playerpg.NewInventoryRepository(db),
		Mail:      playerpg.NewMailRepository(db),
		Effects:   playerpg.NewEffectRepository(db),
	}, items, tx, player.WithLogger(logger))
	if err != nil {
		return httpapi.Services{}, nil, err
	}

	return httpapi.Services{
		Accounts:    accounts,
		Friends:     friends,
		Projections: projections,
		Players:     players,
	}, players, nil
}

// monitorServerErrors cancels ctx when a server reports a failure. It
// returns when the channel closes or ctx is done.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string, logger *slog.Logger) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			logger.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
