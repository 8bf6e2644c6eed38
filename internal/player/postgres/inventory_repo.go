// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/player"
	"github.com/holomush/tidewater/internal/store"
)

// InventoryRepository implements player.InventoryRepository.
type InventoryRepository struct {
	db store.DB
	tx *store.Transactor
}

var _ player.InventoryRepository = (*InventoryRepository)(nil)

// NewInventoryRepository creates a repository backed by db.
func NewInventoryRepository(db store.DB) *InventoryRepository {
	return &InventoryRepository{db: db, tx: store.NewTransactor(db)}
}

// Get loads one of the account's items.
func (r *InventoryRepository) Get(ctx context.Context, account ulid.ULID, id uuid.UUID) (*player.InventoryItem, error) {
	var (
		item player.InventoryItem
		u    pgtype.UUID
	)
	err := store.Conn(ctx, r.db).QueryRow(ctx, `
		SELECT item_uuid, definition_id, state_blob
		FROM inventory_items
		WHERE account_id = $1 AND item_uuid = $2
	`, account.String(), id).Scan(&u, &item.DefinitionID, &item.State)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, oops.With("item_uuid", id.String()).Wrap(notFound("item", account))
		}
		return nil, storeFailed(err, "get item", account)
	}
	item.ID = uuid.UUID(u.Bytes)
	return &item, nil
}

// Upsert inserts the item or replaces its state. The update is guarded by
// ownership, so an item belonging to another account affects no rows.
func (r *InventoryRepository) Upsert(ctx context.Context, account ulid.ULID, item player.InventoryItem) error {
	tag, err := store.Conn(ctx, r.db).Exec(ctx, `
		INSERT INTO inventory_items (item_uuid, account_id, definition_id, state_blob)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_uuid) DO UPDATE SET state_blob = EXCLUDED.state_blob
		WHERE inventory_items.account_id = EXCLUDED.account_id
	`, item.ID, account.String(), item.DefinitionID, item.State)
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return notFound("account", account)
		}
		return storeFailed(err, "upsert item", account)
	}
	if tag.RowsAffected() == 0 {
		return oops.With("item_uuid", item.ID.String()).Wrap(notFound("item", account))
	}
	return nil
}

// Delete removes the item and clears it from the equipment selection.
func (r *InventoryRepository) Delete(ctx context.Context, account ulid.ULID, id uuid.UUID) error {
	return r.tx.InTransaction(ctx, func(ctx context.Context) error {
		q := store.Conn(ctx, r.db)
		tag, err := q.Exec(ctx, `
			DELETE FROM inventory_items WHERE account_id = $1 AND item_uuid = $2
		`, account.String(), id)
		if err != nil {
			return storeFailed(err, "delete item", account)
		}
		if tag.RowsAffected() == 0 {
			return oops.With("item_uuid", id.String()).Wrap(notFound("item", account))
		}
		if _, err := q.Exec(ctx, `
			UPDATE stats SET
				selected_rod = CASE WHEN selected_rod = $2 THEN NULL ELSE selected_rod END,
				selected_bait = CASE WHEN selected_bait = $2 THEN NULL ELSE selected_bait END
			WHERE account_id = $1 AND (selected_rod = $2 OR selected_bait = $2)
		`, account.String(), id); err != nil {
			return storeFailed(err, "clear selection", account)
		}
		return nil
	})
}
