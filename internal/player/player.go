// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package player manages the mutable game state attached to an account:
// counters, the fish log, inventory, mail and timed effects.
package player

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/holomush/tidewater/internal/catalog"
)

// Counter names one of the numeric stats columns.
type Counter string

// Stats counters.
const (
	CounterXP       Counter = "xp"
	CounterCoins    Counter = "coins"
	CounterBucks    Counter = "bucks"
	CounterPlaytime Counter = "total_playtime"
)

// FishCatch is one caught fish.
type FishCatch struct {
	AccountID ulid.ULID
	FishID    int
	Length    int
	BaitID    int
	AreaID    int
}

// InventoryItem is an owned item instance.
type InventoryItem struct {
	ID           uuid.UUID
	DefinitionID int
	State        string
}

// Mail is a message delivered to one or more mailboxes. A nil SenderID
// marks a system message.
type Mail struct {
	ID        ulid.ULID
	SenderID  *ulid.ULID
	Receivers []ulid.ULID
	Title     string
	Message   string
	SentAt    time.Time
}

// Effect is a timed effect granted by an item.
type Effect struct {
	ItemID    int
	ExpiresAt time.Time
}

// StatsRepository persists counters, the fish log and equipment selection.
type StatsRepository interface {
	// Increment adds delta to counter. Returns ErrNotFound when the account
	// has no stats row.
	Increment(ctx context.Context, account ulid.ULID, counter Counter, delta int) error
	// RecordCatch upserts the fish summary and its bait and area rows atomically.
	RecordCatch(ctx context.Context, c FishCatch) error
	// SetSelected stores item as the selection for slot.
	SetSelected(ctx context.Context, account ulid.ULID, slot catalog.ItemType, item uuid.UUID) error
}

// InventoryRepository persists owned items.
type InventoryRepository interface {
	Get(ctx context.Context, account ulid.ULID, id uuid.UUID) (*InventoryItem, error)
	// Upsert inserts the item or replaces its state. An item owned by a
	// different account is reported as ErrNotFound.
	Upsert(ctx context.Context, account ulid.ULID, item InventoryItem) error
	// Delete removes the item and clears it from the equipment selection.
	Delete(ctx context.Context, account ulid.ULID, id uuid.UUID) error
}

// MailRepository persists mail bodies and per-recipient mailbox rows.
type MailRepository interface {
	Create(ctx context.Context, m Mail) error
	// Delete removes the account's mailbox row and the body once no
	// mailbox references it.
	Delete(ctx context.Context, account, mailID ulid.ULID) error
	SetRead(ctx context.Context, account, mailID ulid.ULID, read bool) error
	SetArchived(ctx context.Context, account, mailID ulid.ULID, archived bool) error
}

// EffectRepository persists timed effects.
type EffectRepository interface {
	Upsert(ctx context.Context, account ulid.ULID, e Effect) error
	Delete(ctx context.Context, account ulid.ULID, itemID int) error
	// Active returns the effects expiring after now, soonest first.
	Active(ctx context.Context, account ulid.ULID, now time.Time) ([]Effect, error)
	// DeleteExpired removes every effect that expired at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Repositories groups the stores a Service needs.
type Repositories struct {
	Stats     StatsRepository
	Inventory InventoryRepository
	Mail      MailRepository
	Effects   EffectRepository
}

// Definitions resolves item definitions. *catalog.Catalog implements it.
type Definitions interface {
	TypeOf(id int) (catalog.ItemType, bool)
}

// Transactor runs fn in a single database transaction.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
