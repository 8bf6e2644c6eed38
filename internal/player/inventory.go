// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package player

import (
	"context"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MaxStateLength bounds the opaque per-item state blob.
const MaxStateLength = 64 * 1024

// AddOrUpdateItem stores a new item or replaces the state of one the account
// already owns. The definition must exist in the catalog.
func (s *Service) AddOrUpdateItem(ctx context.Context, account ulid.ULID, item InventoryItem) error {
	err := s.addOrUpdateItem(ctx, account, item)
	recordOperation("add_or_update_item", err)
	return err
}

func (s *Service) addOrUpdateItem(ctx context.Context, account ulid.ULID, item InventoryItem) error {
	if item.ID == uuid.Nil {
		return invalid("PLAYER_INVALID_ITEM", "item uuid is required")
	}
	if len(item.State) > MaxStateLength {
		return invalid("PLAYER_INVALID_ITEM", "state is %d bytes, limit is %d", len(item.State), MaxStateLength)
	}
	if _, ok := s.items.TypeOf(item.DefinitionID); !ok {
		return oops.Code("PLAYER_UNKNOWN_DEFINITION").
			With("definition_id", item.DefinitionID).
			Wrap(ErrUnknownDefinition)
	}
	if err := s.inventory.Upsert(ctx, account, item); err != nil {
		return oops.With("item_uuid", item.ID.String()).Wrap(wrap(err, "upsert item", account))
	}
	return nil
}

// DestroyItem deletes an owned item.
func (s *Service) DestroyItem(ctx context.Context, account ulid.ULID, item uuid.UUID) error {
	err := s.inventory.Delete(ctx, account, item)
	recordOperation("destroy_item", err)
	if err != nil {
		return oops.With("item_uuid", item.String()).Wrap(wrap(err, "destroy item", account))
	}
	return nil
}
