// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package player

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/catalog"
)

// Service applies validated changes to player state.
type Service struct {
	stats     StatsRepository
	inventory InventoryRepository
	mail      MailRepository
	effects   EffectRepository
	items     Definitions
	tx        Transactor
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service.
func NewService(repos Repositories, items Definitions, tx Transactor, opts ...Option) (*Service, error) {
	switch {
	case repos.Stats == nil:
		return nil, oops.Code("PLAYER_SERVICE_INVALID").Errorf("stats repository is required")
	case repos.Inventory == nil:
		return nil, oops.Code("PLAYER_SERVICE_INVALID").Errorf("inventory repository is required")
	case repos.Mail == nil:
		return nil, oops.Code("PLAYER_SERVICE_INVALID").Errorf("mail repository is required")
	case repos.Effects == nil:
		return nil, oops.Code("PLAYER_SERVICE_INVALID").Errorf("effect repository is required")
	case items == nil:
		return nil, oops.Code("PLAYER_SERVICE_INVALID").Errorf("item definitions are required")
	case tx == nil:
		return nil, oops.Code("PLAYER_SERVICE_INVALID").Errorf("transactor is required")
	}

	s := &Service{
		stats:     repos.Stats,
		inventory: repos.Inventory,
		mail:      repos.Mail,
		effects:   repos.Effects,
		items:     items,
		tx:        tx,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		return nil, oops.Code("PLAYER_SERVICE_INVALID").Errorf("logger cannot be nil")
	}
	return s, nil
}

func invalid(code, format string, args ...any) error {
	return oops.Code(code).Wrapf(ErrInvalidInput, format, args...)
}

// wrap adds the operation to err. Errors already carrying a sentinel keep
// their code; anything else is a store failure.
func wrap(err error, operation string, account ulid.ULID) error {
	b := oops.With("operation", operation).With("account_id", account.String())
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return b.Wrap(err)
	}
	return b.Code("PLAYER_STORE_FAILED").Wrap(err)
}

// AddXP adds a non-negative amount of experience.
func (s *Service) AddXP(ctx context.Context, account ulid.ULID, amount int) error {
	return s.increment(ctx, account, CounterXP, amount, false)
}

// ChangeBucks adds delta, which may be negative, to the bucks balance.
func (s *Service) ChangeBucks(ctx context.Context, account ulid.ULID, delta int) error {
	return s.increment(ctx, account, CounterBucks, delta, true)
}

// ChangeCoins adds delta, which may be negative, to the coins balance.
func (s *Service) ChangeCoins(ctx context.Context, account ulid.ULID, delta int) error {
	return s.increment(ctx, account, CounterCoins, delta, true)
}

// AddPlaytime adds a non-negative number of seconds played.
func (s *Service) AddPlaytime(ctx context.Context, account ulid.ULID, seconds int) error {
	return s.increment(ctx, account, CounterPlaytime, seconds, false)
}

func (s *Service) increment(ctx context.Context, account ulid.ULID, counter Counter, delta int, signed bool) error {
	if !signed && delta < 0 {
		err := invalid("PLAYER_NEGATIVE_AMOUNT", "%s cannot decrease", counter)
		recordOperation("increment_"+string(counter), err)
		return oops.With("amount", delta).Wrap(err)
	}
	err := s.stats.Increment(ctx, account, counter, delta)
	recordOperation("increment_"+string(counter), err)
	if err != nil {
		return wrap(err, "increment "+string(counter), account)
	}
	return nil
}

// AddFish records a catch: the species count goes up by one, the longest
// length is kept and the bait and area are remembered.
func (s *Service) AddFish(ctx context.Context, c FishCatch) error {
	var err error
	switch {
	case c.FishID < 0:
		err = invalid("PLAYER_INVALID_FISH", "fish id %d is negative", c.FishID)
	case c.Length < 0:
		err = invalid("PLAYER_INVALID_FISH", "length %d is negative", c.Length)
	case c.BaitID < 0 || c.AreaID < 0:
		err = invalid("PLAYER_INVALID_FISH", "bait and area ids must not be negative")
	default:
		err = s.stats.RecordCatch(ctx, c)
	}
	recordOperation("add_fish", err)
	if err != nil {
		return wrap(err, "add fish", c.AccountID)
	}
	return nil
}

// SelectItem equips an owned item in the rod or bait slot. The item's
// definition must be of the slot's type. Extra items cannot be selected.
func (s *Service) SelectItem(ctx context.Context, account ulid.ULID, item uuid.UUID, slot catalog.ItemType) error {
	err := s.selectItem(ctx, account, item, slot)
	recordOperation("select_item", err)
	return err
}

func (s *Service) selectItem(ctx context.Context, account ulid.ULID, item uuid.UUID, slot catalog.ItemType) error {
	switch slot {
	case catalog.ItemTypeRod, catalog.ItemTypeBait:
	case catalog.ItemTypeExtra:
		return oops.Code("PLAYER_UNSUPPORTED_ITEM_TYPE").
			With("item_type", string(slot)).
			Wrap(ErrUnsupportedItemType)
	default:
		return invalid("PLAYER_INVALID_ITEM_TYPE", "unknown item type %q", slot)
	}

	return s.tx.InTransaction(ctx, func(ctx context.Context) error {
		owned, err := s.inventory.Get(ctx, account, item)
		if err != nil {
			return wrap(err, "load item", account)
		}
		typ, ok := s.items.TypeOf(owned.DefinitionID)
		if !ok {
			return oops.Code("PLAYER_UNKNOWN_DEFINITION").
				With("definition_id", owned.DefinitionID).
				Wrap(ErrUnknownDefinition)
		}
		if typ != slot {
			return oops.Code("PLAYER_ITEM_TYPE_MISMATCH").
				With("item_type", string(typ)).
				With("slot", string(slot)).
				Wrap(ErrItemTypeMismatch)
		}
		if err := s.stats.SetSelected(ctx, account, slot, item); err != nil {
			return wrap(err, "select item", account)
		}
		return nil
	})
}
