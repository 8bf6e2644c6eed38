// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/player"
	"github.com/holomush/tidewater/internal/store"
)

// EffectRepository implements player.EffectRepository.
type EffectRepository struct {
	db store.DB
}

var _ player.EffectRepository = (*EffectRepository)(nil)

// NewEffectRepository creates a repository backed by db.
func NewEffectRepository(db store.DB) *EffectRepository {
	return &EffectRepository{db: db}
}

// Upsert grants the effect or replaces its expiry.
func (r *EffectRepository) Upsert(ctx context.Context, account ulid.ULID, e player.Effect) error {
	_, err := store.Conn(ctx, r.db).Exec(ctx, `
		INSERT INTO player_effects (account_id, item_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, item_id) DO UPDATE SET expires_at = EXCLUDED.expires_at
	`, account.String(), e.ItemID, e.ExpiresAt)
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return notFound("account", account)
		}
		return storeFailed(err, "upsert effect", account)
	}
	return nil
}

// Delete removes the effect granted by itemID.
func (r *EffectRepository) Delete(ctx context.Context, account ulid.ULID, itemID int) error {
	tag, err := store.Conn(ctx, r.db).Exec(ctx, `
		DELETE FROM player_effects WHERE account_id = $1 AND item_id = $2
	`, account.String(), itemID)
	if err != nil {
		return storeFailed(err, "delete effect", account)
	}
	if tag.RowsAffected() == 0 {
		return oops.With("item_id", itemID).Wrap(notFound("effect", account))
	}
	return nil
}

// Active returns the effects expiring after now, soonest first.
func (r *EffectRepository) Active(ctx context.Context, account ulid.ULID, now time.Time) ([]player.Effect, error) {
	rows, err := store.Conn(ctx, r.db).Query(ctx, `
		SELECT item_id, expires_at FROM player_effects
		WHERE account_id = $1 AND expires_at > $2
		ORDER BY expires_at, item_id
	`, account.String(), now)
	if err != nil {
		return nil, storeFailed(err, "list effects", account)
	}
	effects, err := pgx.CollectRows(rows, pgx.RowToStructByPos[player.Effect])
	if err != nil {
		return nil, storeFailed(err, "scan effects", account)
	}
	return effects, nil
}

// DeleteExpired removes the effects of every account that expired at or
// before now.
func (r *EffectRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := store.Conn(ctx, r.db).Exec(ctx, `
		DELETE FROM player_effects WHERE expires_at <= $1
	`, now)
	if err != nil {
		return 0, oops.Code("PLAYER_STORE_FAILED").With("operation", "delete expired effects").Wrap(err)
	}
	return tag.RowsAffected(), nil
}
