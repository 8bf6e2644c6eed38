// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package relationship maintains the symmetric friendship graph.
//
// Every relationship row is keyed by a canonical Pair. A pending request
// and a friendship for the same pair never coexist: accepting a request
// inserts the friendship and deletes the request in one transaction, and the
// store refuses a request for a pair that is already friends.
package relationship

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Friendship is an accepted relationship.
type Friendship struct {
	Pair      Pair
	CreatedAt time.Time
}

// Request is a pending friend request.
type Request struct {
	Pair      Pair
	SenderID  ulid.ULID
	CreatedAt time.Time
}

// Repository persists friendships and requests by canonical pair.
type Repository interface {
	// InsertRequest returns ErrDuplicate when a request or friendship
	// already exists for the pair.
	InsertRequest(ctx context.Context, pair Pair, sender ulid.ULID) error

	// DeleteRequest returns ErrNotFound when no request exists.
	DeleteRequest(ctx context.Context, pair Pair) error

	// InsertFriendship returns ErrDuplicate when the pair are already friends.
	InsertFriendship(ctx context.Context, pair Pair) error

	// DeleteFriendship returns ErrNotFound when the pair are not friends.
	DeleteFriendship(ctx context.Context, pair Pair) error

	// ListFriendships returns every friendship involving id, oldest first.
	ListFriendships(ctx context.Context, id ulid.ULID) ([]Friendship, error)

	// ListRequests returns every pending request involving id, oldest first.
	ListRequests(ctx context.Context, id ulid.ULID) ([]Request, error)
}

// Transactor runs fn in a transaction that repositories join through ctx.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
