// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

// Package integration runs the services against a real PostgreSQL.
package integration

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/holomush/tidewater/internal/account"
	accountpg "github.com/holomush/tidewater/internal/account/postgres"
	"github.com/holomush/tidewater/internal/catalog"
	"github.com/holomush/tidewater/internal/player"
	playerpg "github.com/holomush/tidewater/internal/player/postgres"
	"github.com/holomush/tidewater/internal/projection"
	projectionpg "github.com/holomush/tidewater/internal/projection/postgres"
	"github.com/holomush/tidewater/internal/relationship"
	relationshippg "github.com/holomush/tidewater/internal/relationship/postgres"
	"github.com/holomush/tidewater/internal/store"
)

const testSecret = "integration-secret-0123456789abcdef"

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Integration Suite")
}

// testEnv holds the container, pool and wired services shared by the suite.
type testEnv struct {
	ctx       context.Context
	container testcontainers.Container
	pool      *pgxpool.Pool
	logger    *slog.Logger
	items     *catalog.Catalog
	tokens    *account.TokenCodec

	Accounts      *account.Service
	AccountRepo   *accountpg.AccountRepository
	Relationships *relationship.Service
	Projections   *projection.Service
	Players       *player.Service
}

var env *testEnv

var _ = BeforeSuite(func() {
	var err error
	env, err = setupTestEnv()
	Expect(err).NotTo(HaveOccurred())
})

var _ = AfterSuite(func() {
	if env != nil {
		env.cleanup()
	}
})

var _ = BeforeEach(func() {
	_, err := env.pool.Exec(env.ctx, `
		TRUNCATE accounts, friendships, friend_requests, mail, mailbox,
			fish_caught, fish_caught_area, fish_caught_bait, player_effects CASCADE
	`)
	Expect(err).NotTo(HaveOccurred())
})

func setupTestEnv() (*testEnv, error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("tidewater_test"),
		postgres.WithUsername("tidewater"),
		postgres.WithPassword("tidewater"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}
	_ = migrator.Close()

	pool, err := store.Connect(ctx, connStr, store.DefaultConnectOptions())
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	e := &testEnv{
		ctx:       ctx,
		container: container,
		pool:      pool,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := e.wire(); err != nil {
		e.cleanup()
		return nil, err
	}
	return e, nil
}

func (e *testEnv) wire() error {
	var err error
	e.items, err = catalog.Default()
	if err != nil {
		return err
	}
	e.tokens, err = account.NewTokenCodec([]byte(testSecret))
	if err != nil {
		return err
	}

	e.AccountRepo = accountpg.NewAccountRepository(e.pool)
	e.Accounts, err = e.newAccountService(account.StarterKit{
		Stats:       account.DefaultStarterStats(),
		Definitions: e.items.StarterDefinitions(),
	})
	if err != nil {
		return err
	}

	tx := store.NewTransactor(e.pool)
	e.Relationships, err = relationship.NewService(
		relationshippg.NewRelationshipRepository(e.pool), tx,
		relationship.WithLogger(e.logger),
	)
	if err != nil {
		return err
	}

	e.Projections, err = projection.NewService(projectionpg.NewReader(e.pool), tx, e.logger)
	if err != nil {
		return err
	}

	e.Players, err = player.NewService(player.Repositories{
		Stats:     playerpg.NewStatsRepository(e.pool),
		Inventory: playerpg.NewInventoryRepository(e.pool),
		Mail:      playerpg.NewMailRepository(e.pool),
		Effects:   playerpg.NewEffectRepository(e.pool),
	}, e.items, tx, player.WithLogger(e.logger))
	return err
}

func (e *testEnv) newAccountService(starter account.StarterKit) (*account.Service, error) {
	return account.NewService(e.AccountRepo, account.NewArgon2idHasher(), e.tokens, starter,
		account.WithLogger(e.logger))
}

func (e *testEnv) cleanup() {
	if e.pool != nil {
		e.pool.Close()
	}
	if e.container != nil {
		_ = e.container.Terminate(context.Background())
	}
}

// register creates an account and returns its id.
func register(name string) *account.Account {
	GinkgoHelper()
	token, err := env.Accounts.Register(env.ctx, name, name+"@example.com", "pw-"+name)
	Expect(err).NotTo(HaveOccurred())
	acct, err := env.Accounts.VerifyToken(env.ctx, token)
	Expect(err).NotTo(HaveOccurred())
	return acct
}
