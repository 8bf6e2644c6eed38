// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package postgres implements relationship persistence on PostgreSQL.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/relationship"
	"github.com/holomush/tidewater/internal/store"
)

// RelationshipRepository implements relationship.Repository.
type RelationshipRepository struct {
	db store.DB
	tx *store.Transactor
}

var _ relationship.Repository = (*RelationshipRepository)(nil)

// NewRelationshipRepository creates a repository backed by db.
func NewRelationshipRepository(db store.DB) *RelationshipRepository {
	return &RelationshipRepository{db: db, tx: store.NewTransactor(db)}
}

// lockPair takes a transaction-scoped advisory lock on the pair. Writers
// that check one table before inserting into the other hold it, so a request
// insert cannot read the state from before a concurrent accept committed.
func lockPair(ctx context.Context, q store.Querier, pair relationship.Pair) error {
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, pair.String())
	return err
}

// InsertRequest inserts a pending request. It inserts nothing, and reports
// ErrDuplicate, when the pair already has a request or a friendship.
func (r *RelationshipRepository) InsertRequest(ctx context.Context, pair relationship.Pair, sender ulid.ULID) error {
	return r.tx.InTransaction(ctx, func(ctx context.Context) error {
		q := store.Conn(ctx, r.db)
		if err := lockPair(ctx, q, pair); err != nil {
			return writeErr(err, "lock pair", pair)
		}
		tag, err := q.Exec(ctx, `
			INSERT INTO friend_requests (user_low, user_high, sender_id)
			SELECT $1::text, $2::text, $3::text
			WHERE NOT EXISTS (
				SELECT 1 FROM friendships WHERE user_low = $1::text AND user_high = $2::text
			)
			ON CONFLICT (user_low, user_high) DO NOTHING
		`, pair.Low.String(), pair.High.String(), sender.String())
		if err != nil {
			return writeErr(err, "insert request", pair)
		}
		if tag.RowsAffected() == 0 {
			return duplicate("insert request", pair)
		}
		return nil
	})
}

// DeleteRequest deletes the pair's pending request.
func (r *RelationshipRepository) DeleteRequest(ctx context.Context, pair relationship.Pair) error {
	tag, err := store.Conn(ctx, r.db).Exec(ctx, `
		DELETE FROM friend_requests WHERE user_low = $1 AND user_high = $2
	`, pair.Low.String(), pair.High.String())
	if err != nil {
		return writeErr(err, "delete request", pair)
	}
	if tag.RowsAffected() == 0 {
		return notFound("delete request", pair)
	}
	return nil
}

// InsertFriendship inserts the friendship edge under the pair lock.
func (r *RelationshipRepository) InsertFriendship(ctx context.Context, pair relationship.Pair) error {
	return r.tx.InTransaction(ctx, func(ctx context.Context) error {
		q := store.Conn(ctx, r.db)
		if err := lockPair(ctx, q, pair); err != nil {
			return writeErr(err, "lock pair", pair)
		}
		tag, err := q.Exec(ctx, `
			INSERT INTO friendships (user_low, user_high) VALUES ($1, $2)
			ON CONFLICT (user_low, user_high) DO NOTHING
		`, pair.Low.String(), pair.High.String())
		if err != nil {
			return writeErr(err, "insert friendship", pair)
		}
		if tag.RowsAffected() == 0 {
			return duplicate("insert friendship", pair)
		}
		return nil
	})
}

// DeleteFriendship deletes the friendship edge.
func (r *RelationshipRepository) DeleteFriendship(ctx context.Context, pair relationship.Pair) error {
	tag, err := store.Conn(ctx, r.db).Exec(ctx, `
		DELETE FROM friendships WHERE user_low = $1 AND user_high = $2
	`, pair.Low.String(), pair.High.String())
	if err != nil {
		return writeErr(err, "delete friendship", pair)
	}
	if tag.RowsAffected() == 0 {
		return notFound("delete friendship", pair)
	}
	return nil
}

// ListFriendships returns every friendship involving id, oldest first.
func (r *RelationshipRepository) ListFriendships(ctx context.Context, id ulid.ULID) ([]relationship.Friendship, error) {
	rows, err := store.Conn(ctx, r.db).Query(ctx, `
		SELECT user_low, user_high, created_at FROM friendships
		WHERE user_low = $1 OR user_high = $1
		ORDER BY created_at, user_low, user_high
	`, id.String())
	if err != nil {
		return nil, oops.Code("RELATIONSHIP_QUERY_FAILED").With("account_id", id.String()).Wrap(err)
	}
	defer rows.Close()

	var out []relationship.Friendship
	for rows.Next() {
		var low, high string
		var createdAt time.Time
		if err := rows.Scan(&low, &high, &createdAt); err != nil {
			return nil, oops.Code("RELATIONSHIP_QUERY_FAILED").With("account_id", id.String()).Wrap(err)
		}
		pair, err := decodePair(low, high)
		if err != nil {
			return nil, err
		}
		out = append(out, relationship.Friendship{Pair: pair, CreatedAt: createdAt})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("RELATIONSHIP_QUERY_FAILED").With("account_id", id.String()).Wrap(err)
	}
	return out, nil
}

// ListRequests returns every pending request involving id, oldest first.
func (r *RelationshipRepository) ListRequests(ctx context.Context, id ulid.ULID) ([]relationship.Request, error) {
	rows, err := store.Conn(ctx, r.db).Query(ctx, `
		SELECT user_low, user_high, sender_id, created_at FROM friend_requests
		WHERE user_low = $1 OR user_high = $1
		ORDER BY created_at, user_low, user_high
	`, id.String())
	if err != nil {
		return nil, oops.Code("RELATIONSHIP_QUERY_FAILED").With("account_id", id.String()).Wrap(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (relationship.Request, error) {
		var low, high, sender string
		var req relationship.Request
		if err := row.Scan(&low, &high, &sender, &req.CreatedAt); err != nil {
			return req, oops.Code("RELATIONSHIP_QUERY_FAILED").With("account_id", id.String()).Wrap(err)
		}
		pair, err := decodePair(low, high)
		if err != nil {
			return req, err
		}
		req.Pair = pair
		req.SenderID, err = ulid.ParseStrict(sender)
		if err != nil || !pair.Contains(req.SenderID) {
			return req, oops.Code("RELATIONSHIP_DECODE_FAILED").
				With("pair", pair.String()).
				With("sender_id", sender).
				Errorf("stored sender is not part of the pair")
		}
		return req, nil
	})
}

// decodePair parses a stored pair and checks it is still canonical.
func decodePair(low, high string) (relationship.Pair, error) {
	l, errL := ulid.ParseStrict(low)
	h, errH := ulid.ParseStrict(high)
	if errL != nil || errH != nil || l.Compare(h) >= 0 {
		return relationship.Pair{}, oops.Code("RELATIONSHIP_DECODE_FAILED").
			With("user_low", low).
			With("user_high", high).
			Errorf("stored pair is not a canonical identity pair")
	}
	return relationship.Pair{Low: l, High: h}, nil
}

func writeErr(err error, operation string, pair relationship.Pair) error {
	if ok, _ := store.IsUniqueViolation(err); ok {
		return duplicate(operation, pair)
	}
	return oops.Code("RELATIONSHIP_STORE_FAILED").
		With("operation", operation).
		With("pair", pair.String()).
		Wrap(err)
}

func duplicate(operation string, pair relationship.Pair) error {
	return oops.Code("RELATIONSHIP_DUPLICATE").
		With("operation", operation).
		With("pair", pair.String()).
		Wrap(relationship.ErrDuplicate)
}

func notFound(operation string, pair relationship.Pair) error {
	return oops.Code("RELATIONSHIP_NOT_FOUND").
		With("operation", operation).
		With("pair", pair.String()).
		Wrap(relationship.ErrNotFound)
}
