// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package playertest provides test doubles for the player package.
package playertest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/holomush/tidewater/internal/catalog"
	"github.com/holomush/tidewater/internal/player"
)

func expect(t *testing.T, m *mock.Mock) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockStats is a testify mock of player.StatsRepository.
type MockStats struct{ mock.Mock }

var _ player.StatsRepository = (*MockStats)(nil)

// NewMockStats creates a mock whose expectations are asserted on cleanup.
func NewMockStats(t *testing.T) *MockStats {
	m := &MockStats{}
	expect(t, &m.Mock)
	return m
}

// Increment records the call.
func (m *MockStats) Increment(ctx context.Context, account ulid.ULID, counter player.Counter, delta int) error {
	return m.Called(ctx, account, counter, delta).Error(0)
}

// RecordCatch records the call.
func (m *MockStats) RecordCatch(ctx context.Context, c player.FishCatch) error {
	return m.Called(ctx, c).Error(0)
}

// SetSelected records the call.
func (m *MockStats) SetSelected(ctx context.Context, account ulid.ULID, slot catalog.ItemType, item uuid.UUID) error {
	return m.Called(ctx, account, slot, item).Error(0)
}

// MockInventory is a testify mock of player.InventoryRepository.
type MockInventory struct{ mock.Mock }

var _ player.InventoryRepository = (*MockInventory)(nil)

// NewMockInventory creates a mock whose expectations are asserted on cleanup.
func NewMockInventory(t *testing.T) *MockInventory {
	m := &MockInventory{}
	expect(t, &m.Mock)
	return m
}

// Get records the call.
func (m *MockInventory) Get(ctx context.Context, account ulid.ULID, id uuid.UUID) (*player.InventoryItem, error) {
	args := m.Called(ctx, account, id)
	if v := args.Get(0); v != nil {
		return v.(*player.InventoryItem), args.Error(1)
	}
	return nil, args.Error(1)
}

// Upsert records the call.
func (m *MockInventory) Upsert(ctx context.Context, account ulid.ULID, item player.InventoryItem) error {
	return m.Called(ctx, account, item).Error(0)
}

// Delete records the call.
func (m *MockInventory) Delete(ctx context.Context, account ulid.ULID, id uuid.UUID) error {
	return m.Called(ctx, account, id).Error(0)
}

// MockMail is a testify mock of player.MailRepository.
type MockMail struct{ mock.Mock }

var _ player.MailRepository = (*MockMail)(nil)

// NewMockMail creates a mock whose expectations are asserted on cleanup.
func NewMockMail(t *testing.T) *MockMail {
	m := &MockMail{}
	expect(t, &m.Mock)
	return m
}

// Create records the call.
func (m *MockMail) Create(ctx context.Context, mail player.Mail) error {
	return m.Called(ctx, mail).Error(0)
}

// Delete records the call.
func (m *MockMail) Delete(ctx context.Context, account, mailID ulid.ULID) error {
	return m.Called(ctx, account, mailID).Error(0)
}

// SetRead records the call.
func (m *MockMail) SetRead(ctx context.Context, account, mailID ulid.ULID, read bool) error {
	return m.Called(ctx, account, mailID, read).Error(0)
}

// SetArchived records the call.
func (m *MockMail) SetArchived(ctx context.Context, account, mailID ulid.ULID, archived bool) error {
	return m.Called(ctx, account, mailID, archived).Error(0)
}

// MockEffects is a testify mock of player.EffectRepository.
type MockEffects struct{ mock.Mock }

var _ player.EffectRepository = (*MockEffects)(nil)

// NewMockEffects creates a mock whose expectations are asserted on cleanup.
func NewMockEffects(t *testing.T) *MockEffects {
	m := &MockEffects{}
	expect(t, &m.Mock)
	return m
}

// Upsert records the call.
func (m *MockEffects) Upsert(ctx context.Context, account ulid.ULID, e player.Effect) error {
	return m.Called(ctx, account, e).Error(0)
}

// Delete records the call.
func (m *MockEffects) Delete(ctx context.Context, account ulid.ULID, itemID int) error {
	return m.Called(ctx, account, itemID).Error(0)
}

// Active records the call.
func (m *MockEffects) Active(ctx context.Context, account ulid.ULID, now time.Time) ([]player.Effect, error) {
	args := m.Called(ctx, account, now)
	if v := args.Get(0); v != nil {
		return v.([]player.Effect), args.Error(1)
	}
	return nil, args.Error(1)
}

// DeleteExpired records the call.
func (m *MockEffects) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// Tx runs functions directly and counts the transactions it was asked for.
type Tx struct {
	Calls int
}

var _ player.Transactor = (*Tx)(nil)

// InTransaction calls fn.
func (t *Tx) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}
