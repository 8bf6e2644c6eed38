// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package relationshiptest provides an in-memory relationship store.
package relationshiptest

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/tidewater/internal/relationship"
)

// MemStore implements relationship.Repository and relationship.Transactor
// in memory. A failed transaction restores the state captured when it began.
// It does not isolate concurrent transactions from each other.
type MemStore struct {
	mu          sync.Mutex
	friendships map[relationship.Pair]relationship.Friendship
	requests    map[relationship.Pair]relationship.Request
	failures    map[string]error
	now         func() time.Time
}

var (
	_ relationship.Repository = (*MemStore)(nil)
	_ relationship.Transactor = (*MemStore)(nil)
)

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		friendships: make(map[relationship.Pair]relationship.Friendship),
		requests:    make(map[relationship.Pair]relationship.Request),
		failures:    make(map[string]error),
		now:         time.Now,
	}
}

// FailOn makes the named Repository method return err until cleared with a nil err.
func (m *MemStore) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, method)
		return
	}
	m.failures[method] = err
}

func (m *MemStore) fail(method string) error {
	return m.failures[method]
}

// InTransaction runs fn and restores the previous state if it fails.
func (m *MemStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	friendships := maps.Clone(m.friendships)
	requests := maps.Clone(m.requests)
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.friendships, m.requests = friendships, requests
		m.mu.Unlock()
		return err
	}
	return nil
}

// InsertRequest stores a request unless the pair already has a request or friendship.
func (m *MemStore) InsertRequest(_ context.Context, pair relationship.Pair, sender ulid.ULID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertRequest"); err != nil {
		return err
	}
	if _, ok := m.requests[pair]; ok {
		return relationship.ErrDuplicate
	}
	if _, ok := m.friendships[pair]; ok {
		return relationship.ErrDuplicate
	}
	m.requests[pair] = relationship.Request{Pair: pair, SenderID: sender, CreatedAt: m.now()}
	return nil
}

// DeleteRequest removes the pair's request.
func (m *MemStore) DeleteRequest(_ context.Context, pair relationship.Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteRequest"); err != nil {
		return err
	}
	if _, ok := m.requests[pair]; !ok {
		return relationship.ErrNotFound
	}
	delete(m.requests, pair)
	return nil
}

// InsertFriendship stores a friendship.
func (m *MemStore) InsertFriendship(_ context.Context, pair relationship.Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertFriendship"); err != nil {
		return err
	}
	if _, ok := m.friendships[pair]; ok {
		return relationship.ErrDuplicate
	}
	m.friendships[pair] = relationship.Friendship{Pair: pair, CreatedAt: m.now()}
	return nil
}

// DeleteFriendship removes the pair's friendship.
func (m *MemStore) DeleteFriendship(_ context.Context, pair relationship.Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteFriendship"); err != nil {
		return err
	}
	if _, ok := m.friendships[pair]; !ok {
		return relationship.ErrNotFound
	}
	delete(m.friendships, pair)
	return nil
}

// ListFriendships returns friendships involving id, ordered by pair.
func (m *MemStore) ListFriendships(_ context.Context, id ulid.ULID) ([]relationship.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListFriendships"); err != nil {
		return nil, err
	}
	var out []relationship.Friendship
	for p, f := range m.friendships {
		if p.Contains(id) {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b relationship.Friendship) int { return comparePairs(a.Pair, b.Pair) })
	return out, nil
}

// ListRequests returns requests involving id, ordered by pair.
func (m *MemStore) ListRequests(_ context.Context, id ulid.ULID) ([]relationship.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListRequests"); err != nil {
		return nil, err
	}
	var out []relationship.Request
	for p, r := range m.requests {
		if p.Contains(id) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b relationship.Request) int { return comparePairs(a.Pair, b.Pair) })
	return out, nil
}

// Counts returns the number of stored friendships and requests.
func (m *MemStore) Counts() (friendships, requests int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.friendships), len(m.requests)
}

func comparePairs(a, b relationship.Pair) int {
	if c := a.Low.Compare(b.Low); c != 0 {
		return c
	}
	return a.High.Compare(b.High)
}
