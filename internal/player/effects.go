// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package player

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// AddEffect grants the item's effect until expiresAt, replacing the expiry
// of an effect the account already has for the same item.
func (s *Service) AddEffect(ctx context.Context, account ulid.ULID, itemID int, expiresAt time.Time) error {
	err := s.addEffect(ctx, account, itemID, expiresAt)
	recordOperation("add_effect", err)
	return err
}

func (s *Service) addEffect(ctx context.Context, account ulid.ULID, itemID int, expiresAt time.Time) error {
	if _, ok := s.items.TypeOf(itemID); !ok {
		return oops.Code("PLAYER_UNKNOWN_DEFINITION").With("definition_id", itemID).Wrap(ErrUnknownDefinition)
	}
	if !expiresAt.After(s.now()) {
		return oops.With("expires_at", expiresAt).Wrap(invalid("PLAYER_EFFECT_EXPIRED", "expiry must be in the future"))
	}
	e := Effect{ItemID: itemID, ExpiresAt: expiresAt.UTC().Truncate(time.Microsecond)}
	if err := s.effects.Upsert(ctx, account, e); err != nil {
		return wrap(err, "add effect", account)
	}
	return nil
}

// RemoveEffect ends an effect early.
func (s *Service) RemoveEffect(ctx context.Context, account ulid.ULID, itemID int) error {
	err := s.effects.Delete(ctx, account, itemID)
	recordOperation("remove_effect", err)
	if err != nil {
		return oops.With("item_id", itemID).Wrap(wrap(err, "remove effect", account))
	}
	return nil
}

// ActiveEffects lists the account's unexpired effects, soonest expiry first.
func (s *Service) ActiveEffects(ctx context.Context, account ulid.ULID) ([]Effect, error) {
	effects, err := s.effects.Active(ctx, account, s.now())
	if err != nil {
		return nil, wrap(err, "list effects", account)
	}
	if effects == nil {
		effects = []Effect{}
	}
	return effects, nil
}

// CleanupExpiredEffects deletes expired effects of every account and
// returns how many were removed.
func (s *Service) CleanupExpiredEffects(ctx context.Context) (int64, error) {
	n, err := s.effects.DeleteExpired(ctx, s.now())
	recordOperation("cleanup_effects", err)
	if err != nil {
		return 0, oops.Code("PLAYER_STORE_FAILED").With("operation", "cleanup effects").Wrap(err)
	}
	EffectsExpired.Add(float64(n))
	return n, nil
}
