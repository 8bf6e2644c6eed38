// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package postgres reads account projections from PostgreSQL.
package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/projection"
	"github.com/holomush/tidewater/internal/store"
)

// Reader implements projection.Reader.
type Reader struct {
	db store.DB
}

var _ projection.Reader = (*Reader)(nil)

// NewReader creates a Reader backed by db.
func NewReader(db store.DB) *Reader {
	return &Reader{db: db}
}

func corrupt(part string, id ulid.ULID, format string, args ...any) error {
	return oops.Code("PROJECTION_CORRUPT").
		With("part", part).
		With("account_id", id.String()).
		Wrapf(projection.ErrCorrupt, format, args...)
}

func queryFailed(part string, id ulid.ULID, err error) error {
	return oops.Code("PROJECTION_QUERY_FAILED").
		With("part", part).
		With("account_id", id.String()).
		Wrap(err)
}

func optionalUUID(u pgtype.UUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	v := uuid.UUID(u.Bytes)
	return &v
}

// Profile reads the name and stats row. An account without a stats row is corrupt.
func (r *Reader) Profile(ctx context.Context, id ulid.ULID) (*projection.Profile, error) {
	var (
		p        projection.Profile
		hasStats bool
		rod      pgtype.UUID
		bait     pgtype.UUID
	)
	err := store.Conn(ctx, r.db).QueryRow(ctx, `
		SELECT a.name, s.account_id IS NOT NULL,
		       COALESCE(s.xp, 0), COALESCE(s.coins, 0), COALESCE(s.bucks, 0),
		       COALESCE(s.total_playtime, 0), s.selected_rod, s.selected_bait
		FROM accounts a
		LEFT JOIN stats s ON s.account_id = a.id
		WHERE a.id = $1
	`, id.String()).Scan(&p.Name, &hasStats, &p.XP, &p.Coins, &p.Bucks, &p.TotalPlaytime, &rod, &bait)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, oops.Code("PROJECTION_NOT_FOUND").With("account_id", id.String()).Wrap(projection.ErrNotFound)
		}
		return nil, queryFailed("profile", id, err)
	}
	if !hasStats {
		return nil, corrupt("profile", id, "account has no stats row")
	}
	p.SelectedRod = optionalUUID(rod)
	p.SelectedBait = optionalUUID(bait)
	return &p, nil
}

// Fish reads the per-species catch summaries with their distinct areas and baits.
func (r *Reader) Fish(ctx context.Context, id ulid.ULID) ([]projection.FishData, error) {
	rows, err := store.Conn(ctx, r.db).Query(ctx, `
		SELECT f.fish_id, f.amount, f.max_length, f.first_caught,
		       COALESCE((SELECT array_agg(a.area_id ORDER BY a.area_id) FROM fish_caught_area a
		                 WHERE a.account_id = f.account_id AND a.fish_id = f.fish_id), '{}'),
		       COALESCE((SELECT array_agg(b.bait_id ORDER BY b.bait_id) FROM fish_caught_bait b
		                 WHERE b.account_id = f.account_id AND b.fish_id = f.fish_id), '{}')
		FROM fish_caught f
		WHERE f.account_id = $1
		ORDER BY f.fish_id
	`, id.String())
	if err != nil {
		return nil, queryFailed("fish", id, err)
	}
	defer rows.Close()

	var out []projection.FishData
	for rows.Next() {
		var (
			fish        projection.FishData
			firstCaught time.Time
			areas       []int32
			baits       []int32
		)
		if err := rows.Scan(&fish.FishID, &fish.Amount, &fish.MaxLength, &firstCaught, &areas, &baits); err != nil {
			return nil, corrupt("fish", id, "decode fish row: %v", err)
		}
		if fish.Amount < 1 || fish.MaxLength < 0 {
			return nil, corrupt("fish", id, "fish %d has amount %d and max length %d", fish.FishID, fish.Amount, fish.MaxLength)
		}
		fish.FirstCaught = projection.Date{Time: firstCaught}
		fish.Areas = widen(areas)
		fish.Baits = widen(baits)
		out = append(out, fish)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("fish", id, err)
	}
	return out, nil
}

func widen(in []int32) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

// Inventory reads the owned items.
func (r *Reader) Inventory(ctx context.Context, id ulid.ULID) ([]projection.InventoryItem, error) {
	rows, err := store.Conn(ctx, r.db).Query(ctx, `
		SELECT item_uuid, definition_id, state_blob
		FROM inventory_items
		WHERE account_id = $1
		ORDER BY definition_id, item_uuid
	`, id.String())
	if err != nil {
		return nil, queryFailed("inventory", id, err)
	}
	defer rows.Close()

	var out []projection.InventoryItem
	for rows.Next() {
		var (
			item projection.InventoryItem
			u    pgtype.UUID
		)
		if err := rows.Scan(&u, &item.DefinitionID, &item.State); err != nil {
			return nil, corrupt("inventory", id, "decode inventory row: %v", err)
		}
		if !u.Valid {
			return nil, corrupt("inventory", id, "inventory item without uuid")
		}
		item.ItemUUID = uuid.UUID(u.Bytes)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("inventory", id, err)
	}
	return out, nil
}

// Mailbox reads the account's mailbox rows joined to the shared bodies.
func (r *Reader) Mailbox(ctx context.Context, id ulid.ULID) ([]projection.MailEntry, error) {
	rows, err := store.Conn(ctx, r.db).Query(ctx, `
		SELECT m.id, m.sender_id, m.title, m.message, m.sent_at, mb.read, mb.archived
		FROM mailbox mb
		JOIN mail m ON m.id = mb.mail_id
		WHERE mb.account_id = $1
		ORDER BY m.sent_at DESC, m.id DESC
	`, id.String())
	if err != nil {
		return nil, queryFailed("mailbox", id, err)
	}
	defer rows.Close()

	var out []projection.MailEntry
	for rows.Next() {
		var (
			entry    projection.MailEntry
			mailID   string
			senderID pgtype.Text
		)
		if err := rows.Scan(&mailID, &senderID, &entry.Title, &entry.Message, &entry.SentAt, &entry.Read, &entry.Archived); err != nil {
			return nil, corrupt("mailbox", id, "decode mailbox row: %v", err)
		}
		if entry.MailID, err = ulid.ParseStrict(mailID); err != nil {
			return nil, corrupt("mailbox", id, "mail id %q: %v", mailID, err)
		}
		if senderID.Valid {
			sender, err := ulid.ParseStrict(senderID.String)
			if err != nil {
				return nil, corrupt("mailbox", id, "sender id %q: %v", senderID.String, err)
			}
			entry.SenderID = &sender
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("mailbox", id, err)
	}
	return out, nil
}

// Friends reads the friendships involving the account.
func (r *Reader) Friends(ctx context.Context, id ulid.ULID) ([]projection.Friend, error) {
	rows, err := store.Conn(ctx, r.db).Query(ctx, `
		SELECT user_low, user_high FROM friendships
		WHERE user_low = $1 OR user_high = $1
		ORDER BY user_low, user_high
	`, id.String())
	if err != nil {
		return nil, queryFailed("friends", id, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (projection.Friend, error) {
		var low, high string
		if err := row.Scan(&low, &high); err != nil {
			return projection.Friend{}, corrupt("friends", id, "decode friendship row: %v", err)
		}
		l, h, err := decodePair(low, high)
		if err != nil {
			return projection.Friend{}, corrupt("friends", id, "%v", err)
		}
		return projection.Friend{UserOne: l, UserTwo: h}, nil
	})
}

// FriendRequests reads the pending requests involving the account.
func (r *Reader) FriendRequests(ctx context.Context, id ulid.ULID) ([]projection.FriendRequest, error) {
	rows, err := store.Conn(ctx, r.db).Query(ctx, `
		SELECT user_low, user_high, sender_id FROM friend_requests
		WHERE user_low = $1 OR user_high = $1
		ORDER BY user_low, user_high
	`, id.String())
	if err != nil {
		return nil, queryFailed("friend_requests", id, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (projection.FriendRequest, error) {
		var low, high, sender string
		if err := row.Scan(&low, &high, &sender); err != nil {
			return projection.FriendRequest{}, corrupt("friend_requests", id, "decode request row: %v", err)
		}
		l, h, err := decodePair(low, high)
		if err != nil {
			return projection.FriendRequest{}, corrupt("friend_requests", id, "%v", err)
		}
		s, err := ulid.ParseStrict(sender)
		if err != nil || (s != l && s != h) {
			return projection.FriendRequest{}, corrupt("friend_requests", id, "sender %q is not part of the pair", sender)
		}
		return projection.FriendRequest{UserOne: l, UserTwo: h, SenderID: s}, nil
	})
}

func decodePair(low, high string) (ulid.ULID, ulid.ULID, error) {
	l, err := ulid.ParseStrict(low)
	if err != nil {
		return ulid.ULID{}, ulid.ULID{}, oops.Errorf("user_low %q: %w", low, err)
	}
	h, err := ulid.ParseStrict(high)
	if err != nil {
		return ulid.ULID{}, ulid.ULID{}, oops.Errorf("user_high %q: %w", high, err)
	}
	if l.Compare(h) >= 0 {
		return ulid.ULID{}, ulid.ULID{}, oops.Errorf("pair %s:%s is not in canonical order", low, high)
	}
	return l, h, nil
}
