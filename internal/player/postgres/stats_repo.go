// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package postgres implements player state persistence on PostgreSQL.
package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/catalog"
	"github.com/holomush/tidewater/internal/player"
	"github.com/holomush/tidewater/internal/store"
)

var incrementStatements = map[player.Counter]string{
	player.CounterXP:       `UPDATE stats SET xp = xp + $2 WHERE account_id = $1`,
	player.CounterCoins:    `UPDATE stats SET coins = coins + $2 WHERE account_id = $1`,
	player.CounterBucks:    `UPDATE stats SET bucks = bucks + $2 WHERE account_id = $1`,
	player.CounterPlaytime: `UPDATE stats SET total_playtime = total_playtime + $2 WHERE account_id = $1`,
}

var selectStatements = map[catalog.ItemType]string{
	catalog.ItemTypeRod:  `UPDATE stats SET selected_rod = $2 WHERE account_id = $1`,
	catalog.ItemTypeBait: `UPDATE stats SET selected_bait = $2 WHERE account_id = $1`,
}

// StatsRepository implements player.StatsRepository.
type StatsRepository struct {
	db store.DB
	tx *store.Transactor
}

var _ player.StatsRepository = (*StatsRepository)(nil)

// NewStatsRepository creates a repository backed by db.
func NewStatsRepository(db store.DB) *StatsRepository {
	return &StatsRepository{db: db, tx: store.NewTransactor(db)}
}

// Increment adds delta to the counter column.
func (r *StatsRepository) Increment(ctx context.Context, account ulid.ULID, counter player.Counter, delta int) error {
	stmt, ok := incrementStatements[counter]
	if !ok {
		return oops.Code("PLAYER_INVALID_COUNTER").With("counter", string(counter)).Wrap(player.ErrInvalidInput)
	}
	tag, err := store.Conn(ctx, r.db).Exec(ctx, stmt, account.String(), delta)
	if err != nil {
		return storeFailed(err, "increment "+string(counter), account)
	}
	if tag.RowsAffected() == 0 {
		return notFound("stats", account)
	}
	return nil
}

// RecordCatch upserts the fish summary, then the bait and area rows.
func (r *StatsRepository) RecordCatch(ctx context.Context, c player.FishCatch) error {
	return r.tx.InTransaction(ctx, func(ctx context.Context) error {
		q := store.Conn(ctx, r.db)
		account := c.AccountID.String()

		if _, err := q.Exec(ctx, `
			INSERT INTO fish_caught (account_id, fish_id, amount, max_length, first_caught)
			VALUES ($1, $2, 1, $3, CURRENT_DATE)
			ON CONFLICT (account_id, fish_id) DO UPDATE SET
				amount = fish_caught.amount + 1,
				max_length = GREATEST(fish_caught.max_length, EXCLUDED.max_length)
		`, account, c.FishID, c.Length); err != nil {
			if store.IsForeignKeyViolation(err) {
				return notFound("account", c.AccountID)
			}
			return storeFailed(err, "upsert fish", c.AccountID)
		}

		if _, err := q.Exec(ctx, `
			INSERT INTO fish_caught_bait (account_id, fish_id, bait_id)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, account, c.FishID, c.BaitID); err != nil {
			return storeFailed(err, "insert fish bait", c.AccountID)
		}

		if _, err := q.Exec(ctx, `
			INSERT INTO fish_caught_area (account_id, fish_id, area_id)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, account, c.FishID, c.AreaID); err != nil {
			return storeFailed(err, "insert fish area", c.AccountID)
		}
		return nil
	})
}

// SetSelected stores item in the slot's column.
func (r *StatsRepository) SetSelected(ctx context.Context, account ulid.ULID, slot catalog.ItemType, item uuid.UUID) error {
	stmt, ok := selectStatements[slot]
	if !ok {
		return oops.Code("PLAYER_UNSUPPORTED_ITEM_TYPE").With("item_type", string(slot)).Wrap(player.ErrUnsupportedItemType)
	}
	tag, err := store.Conn(ctx, r.db).Exec(ctx, stmt, account.String(), item)
	if err != nil {
		return storeFailed(err, "select "+string(slot), account)
	}
	if tag.RowsAffected() == 0 {
		return notFound("stats", account)
	}
	return nil
}

func storeFailed(err error, operation string, account ulid.ULID) error {
	return oops.Code("PLAYER_STORE_FAILED").
		With("operation", operation).
		With("account_id", account.String()).
		Wrap(err)
}

func notFound(what string, account ulid.ULID) error {
	return oops.Code("PLAYER_NOT_FOUND").
		With("entity", what).
		With("account_id", account.String()).
		Wrap(player.ErrNotFound)
}
