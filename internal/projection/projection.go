// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package projection assembles the read-only snapshot of everything tied to
// one account. The snapshot is read inside a single REPEATABLE READ
// transaction and is returned whole or not at all: a sub-aggregate that
// fails to decode fails the entire projection with ErrCorrupt, because an
// empty list and an undecodable one must never look the same to a client.
package projection

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	// ErrNotFound is returned when the account does not exist.
	ErrNotFound = errors.New("account not found")

	// ErrCorrupt is returned when stored state cannot be decoded.
	ErrCorrupt = errors.New("stored account state is corrupt")
)

// DateLayout is the JSON form of Date.
const DateLayout = "2006-01-02"

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// MarshalJSON renders the date without a time component.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON parses YYYY-MM-DD.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("date must be a JSON string")
	}
	t, err := time.Parse(DateLayout, string(b[1:len(b)-1]))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// UserData is the full account snapshot.
type UserData struct {
	Name           string          `json:"name"`
	XP             int             `json:"xp"`
	Coins          int             `json:"coins"`
	Bucks          int             `json:"bucks"`
	TotalPlaytime  int             `json:"total_playtime"`
	SelectedRod    *uuid.UUID      `json:"selected_rod"`
	SelectedBait   *uuid.UUID      `json:"selected_bait"`
	FishData       []FishData      `json:"fish_data"`
	InventoryItems []InventoryItem `json:"inventory_items"`
	Mailbox        []MailEntry     `json:"mailbox"`
	Friends        []Friend        `json:"friends"`
	FriendRequests []FriendRequest `json:"friend_requests"`
}

// Profile is the name and stats row of an account.
type Profile struct {
	Name          string
	XP            int
	Coins         int
	Bucks         int
	TotalPlaytime int
	SelectedRod   *uuid.UUID
	SelectedBait  *uuid.UUID
}

// FishData summarizes every catch of one species.
type FishData struct {
	FishID      int   `json:"fish_id"`
	Amount      int   `json:"amount"`
	MaxLength   int   `json:"max_length"`
	FirstCaught Date  `json:"first_caught"`
	Areas       []int `json:"areas"`
	Baits       []int `json:"baits"`
}

// InventoryItem is one owned item.
type InventoryItem struct {
	ItemUUID     uuid.UUID `json:"item_uuid"`
	DefinitionID int       `json:"definition_id"`
	State        string    `json:"state_blob"`
}

// MailEntry is one mailbox row with the shared mail body.
type MailEntry struct {
	MailID   ulid.ULID  `json:"mail_id"`
	SenderID *ulid.ULID `json:"sender_id"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	SentAt   time.Time  `json:"send_time"`
	Read     bool       `json:"read"`
	Archived bool       `json:"archived"`
}

// Friend is an accepted friendship as its canonical pair.
type Friend struct {
	UserOne ulid.ULID `json:"user_one"`
	UserTwo ulid.ULID `json:"user_two"`
}

// FriendRequest is a pending request as its canonical pair plus sender.
type FriendRequest struct {
	UserOne  ulid.ULID `json:"user_one"`
	UserTwo  ulid.ULID `json:"user_two"`
	SenderID ulid.ULID `json:"request_sender_id"`
}

// Reader reads the sub-aggregates of an account. Every method joins the
// transaction carried by ctx. Decoding failures wrap ErrCorrupt.
type Reader interface {
	// Profile returns ErrNotFound when the account does not exist.
	Profile(ctx context.Context, id ulid.ULID) (*Profile, error)
	Fish(ctx context.Context, id ulid.ULID) ([]FishData, error)
	Inventory(ctx context.Context, id ulid.ULID) ([]InventoryItem, error)
	Mailbox(ctx context.Context, id ulid.ULID) ([]MailEntry, error)
	Friends(ctx context.Context, id ulid.ULID) ([]Friend, error)
	FriendRequests(ctx context.Context, id ulid.ULID) ([]FriendRequest, error)
}

// Snapshotter runs fn against a single consistent read snapshot.
type Snapshotter interface {
	InSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
