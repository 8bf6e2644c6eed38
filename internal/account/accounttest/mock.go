// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package accounttest provides test doubles for the account package.
package accounttest

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/holomush/tidewater/internal/account"
)

// MockRepository is a testify mock of account.Repository.
type MockRepository struct {
	mock.Mock
}

var _ account.Repository = (*MockRepository)(nil)

// NewMockRepository creates a mock whose expectations are asserted on cleanup.
func NewMockRepository(t *testing.T) *MockRepository {
	m := &MockRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create records the call.
func (m *MockRepository) Create(ctx context.Context, acct *account.Account, bundle account.StarterBundle) error {
	args := m.Called(ctx, acct, bundle)
	return args.Error(0)
}

// GetByID records the call.
func (m *MockRepository) GetByID(ctx context.Context, id ulid.ULID) (*account.Account, error) {
	args := m.Called(ctx, id)
	return accountArg(args, 0), args.Error(1)
}

// GetByName records the call.
func (m *MockRepository) GetByName(ctx context.Context, name string) (*account.Account, error) {
	args := m.Called(ctx, name)
	return accountArg(args, 0), args.Error(1)
}

// GetByEmail records the call.
func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	args := m.Called(ctx, email)
	return accountArg(args, 0), args.Error(1)
}

// UpdatePassword records the call.
func (m *MockRepository) UpdatePassword(ctx context.Context, name, passwordHash, salt string) error {
	args := m.Called(ctx, name, passwordHash, salt)
	return args.Error(0)
}

func accountArg(args mock.Arguments, i int) *account.Account {
	if v := args.Get(i); v != nil {
		return v.(*account.Account)
	}
	return nil
}

// MockHasher is a testify mock of account.PasswordHasher.
type MockHasher struct {
	mock.Mock
}

var _ account.PasswordHasher = (*MockHasher)(nil)

// NewMockHasher creates a mock whose expectations are asserted on cleanup.
func NewMockHasher(t *testing.T) *MockHasher {
	m := &MockHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Hash records the call.
func (m *MockHasher) Hash(secret string) (string, error) {
	args := m.Called(secret)
	return args.String(0), args.Error(1)
}

// Verify records the call.
func (m *MockHasher) Verify(secret, encoded string) (bool, error) {
	args := m.Called(secret, encoded)
	return args.Bool(0), args.Error(1)
}

// FastHasher returns a real argon2id hasher with parameters cheap enough
// for unit tests.
func FastHasher() *account.Argon2idHasher {
	return account.NewArgon2idHasherWithParams(account.Argon2Params{
		Time: 1, Memory: 1024, Threads: 1, SaltLen: 8, KeyLen: 16,
	})
}
