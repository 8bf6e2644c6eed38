// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/holomush/tidewater/internal/account"
	"github.com/holomush/tidewater/internal/catalog"
	"github.com/holomush/tidewater/internal/httpapi"
	"github.com/holomush/tidewater/internal/player"
	"github.com/holomush/tidewater/internal/projection"
)

type mockAccounts struct{ mock.Mock }

var _ httpapi.Accounts = (*mockAccounts)(nil)

func (m *mockAccounts) Register(ctx context.Context, name, email, password string) (string, error) {
	args := m.Called(ctx, name, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockAccounts) Login(ctx context.Context, name, password string) (string, error) {
	args := m.Called(ctx, name, password)
	return args.String(0), args.Error(1)
}

func (m *mockAccounts) VerifyToken(ctx context.Context, token string) (*account.Account, error) {
	args := m.Called(ctx, token)
	if v := args.Get(0); v != nil {
		return v.(*account.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccounts) ChangePassword(ctx context.Context, name, newPassword string) error {
	return m.Called(ctx, name, newPassword).Error(0)
}

func (m *mockAccounts) RetrieveUsername(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type mockFriends struct{ mock.Mock }

var _ httpapi.Friends = (*mockFriends)(nil)

func (m *mockFriends) AddFriendRequest(ctx context.Context, a, b, sender ulid.ULID) error {
	return m.Called(ctx, a, b, sender).Error(0)
}

func (m *mockFriends) HandleRequest(ctx context.Context, a, b ulid.ULID, accepted bool) error {
	return m.Called(ctx, a, b, accepted).Error(0)
}

func (m *mockFriends) RemoveFriendRequest(ctx context.Context, a, b ulid.ULID) error {
	return m.Called(ctx, a, b).Error(0)
}

func (m *mockFriends) RemoveFriend(ctx context.Context, a, b ulid.ULID) error {
	return m.Called(ctx, a, b).Error(0)
}

type mockProjections struct{ mock.Mock }

var _ httpapi.Projections = (*mockProjections)(nil)

func (m *mockProjections) RetrieveAll(ctx context.Context, id ulid.ULID) (*projection.UserData, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*projection.UserData), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPlayers struct{ mock.Mock }

var _ httpapi.Players = (*mockPlayers)(nil)

func (m *mockPlayers) AddXP(ctx context.Context, id ulid.ULID, amount int) error {
	return m.Called(ctx, id, amount).Error(0)
}

func (m *mockPlayers) ChangeBucks(ctx context.Context, id ulid.ULID, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *mockPlayers) ChangeCoins(ctx context.Context, id ulid.ULID, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *mockPlayers) AddPlaytime(ctx context.Context, id ulid.ULID, seconds int) error {
	return m.Called(ctx, id, seconds).Error(0)
}

func (m *mockPlayers) AddFish(ctx context.Context, c player.FishCatch) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockPlayers) SelectItem(ctx context.Context, id ulid.ULID, item uuid.UUID, slot catalog.ItemType) error {
	return m.Called(ctx, id, item, slot).Error(0)
}

func (m *mockPlayers) AddOrUpdateItem(ctx context.Context, id ulid.ULID, item player.InventoryItem) error {
	return m.Called(ctx, id, item).Error(0)
}

func (m *mockPlayers) DestroyItem(ctx context.Context, id ulid.ULID, item uuid.UUID) error {
	return m.Called(ctx, id, item).Error(0)
}

func (m *mockPlayers) SendMail(ctx context.Context, mail player.Mail) (ulid.ULID, error) {
	args := m.Called(ctx, mail)
	return args.Get(0).(ulid.ULID), args.Error(1)
}

func (m *mockPlayers) DeleteMail(ctx context.Context, id, mailID ulid.ULID) error {
	return m.Called(ctx, id, mailID).Error(0)
}

func (m *mockPlayers) MarkRead(ctx context.Context, id, mailID ulid.ULID, read bool) error {
	return m.Called(ctx, id, mailID, read).Error(0)
}

func (m *mockPlayers) MarkArchived(ctx context.Context, id, mailID ulid.ULID, archived bool) error {
	return m.Called(ctx, id, mailID, archived).Error(0)
}

func (m *mockPlayers) AddEffect(ctx context.Context, id ulid.ULID, itemID int, expiresAt time.Time) error {
	return m.Called(ctx, id, itemID, expiresAt).Error(0)
}

func (m *mockPlayers) RemoveEffect(ctx context.Context, id ulid.ULID, itemID int) error {
	return m.Called(ctx, id, itemID).Error(0)
}

func (m *mockPlayers) ActiveEffects(ctx context.Context, id ulid.ULID) ([]player.Effect, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.([]player.Effect), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlayers) CleanupExpiredEffects(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
