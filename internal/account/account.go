// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package account

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Name and password constraints.
const (
	MinNameLength     = 3
	MaxNameLength     = 30
	MinPasswordLength = 3
	MaxPasswordLength = 128
	MaxEmailLength    = 254
)

// nameRegex matches names that start with a letter and contain only
// letters, digits and underscores.
var nameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Account is a registered player identity.
type Account struct {
	ID           ulid.ULID
	Name         string
	Email        string
	PasswordHash string
	Salt         string
	CreatedAt    time.Time
}

// StarterStats are the balances seeded for a new account.
type StarterStats struct {
	XP       int
	Coins    int
	Bucks    int
	Playtime int
}

// DefaultStarterStats returns the balances every account starts with.
func DefaultStarterStats() StarterStats {
	return StarterStats{XP: 0, Coins: 25, Bucks: 5000, Playtime: 0}
}

// StarterItem is one inventory row created at registration.
type StarterItem struct {
	ID           uuid.UUID
	DefinitionID int
	State        string
}

// StarterBundle is everything persisted alongside a new account.
type StarterBundle struct {
	Stats StarterStats
	Items []StarterItem
}

// StarterKit describes the starter bundle independent of any one account.
// Each registration expands it into a StarterBundle with fresh item IDs.
type StarterKit struct {
	Stats       StarterStats
	Definitions []int
}

// Bundle expands the kit into concrete rows.
func (k StarterKit) Bundle() StarterBundle {
	items := make([]StarterItem, 0, len(k.Definitions))
	for _, def := range k.Definitions {
		items = append(items, StarterItem{ID: uuid.New(), DefinitionID: def})
	}
	return StarterBundle{Stats: k.Stats, Items: items}
}

// Repository persists accounts.
type Repository interface {
	// Create stores the account together with its starter bundle in one
	// transaction. Returns ErrConflict if the name or email is taken.
	Create(ctx context.Context, acct *Account, bundle StarterBundle) error

	// GetByID returns ErrNotFound if no account has the ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)

	// GetByName looks the name up case-insensitively.
	GetByName(ctx context.Context, name string) (*Account, error)

	// GetByEmail looks the email up case-insensitively.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// UpdatePassword replaces the hash and salt of the named account.
	// Returns ErrNotFound if no row matched.
	UpdatePassword(ctx context.Context, name, passwordHash, salt string) error
}

// ValidateName checks a display name against the naming rules.
func ValidateName(name string) error {
	switch {
	case name == "":
		return oops.Code("ACCOUNT_INVALID_NAME").Wrapf(ErrInvalidInput, "name cannot be empty")
	case len(name) < MinNameLength:
		return oops.Code("ACCOUNT_INVALID_NAME").
			With("min", MinNameLength).
			Wrapf(ErrInvalidInput, "name must be at least %d characters", MinNameLength)
	case len(name) > MaxNameLength:
		return oops.Code("ACCOUNT_INVALID_NAME").
			With("max", MaxNameLength).
			Wrapf(ErrInvalidInput, "name must be at most %d characters", MaxNameLength)
	case !nameRegex.MatchString(name):
		return oops.Code("ACCOUNT_INVALID_NAME").
			Wrapf(ErrInvalidInput, "name must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail checks that email is a bare address.
func ValidateEmail(email string) error {
	if email == "" || len(email) > MaxEmailLength {
		return oops.Code("ACCOUNT_INVALID_EMAIL").Wrapf(ErrInvalidInput, "email must be 1 to %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return oops.Code("ACCOUNT_INVALID_EMAIL").With("email", email).Wrapf(ErrInvalidInput, "email is not a valid address")
	}
	return nil
}

// ValidatePassword checks password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return oops.Code("ACCOUNT_INVALID_PASSWORD").
			With("min", MinPasswordLength).
			With("max", MaxPasswordLength).
			Wrapf(ErrInvalidInput, "password must be %d to %d characters", MinPasswordLength, MaxPasswordLength)
	}
	return nil
}
