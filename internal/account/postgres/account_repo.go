// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package postgres implements account persistence on PostgreSQL.
package postgres

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/account"
	"github.com/holomush/tidewater/internal/store"
)

// AccountRepository implements account.Repository.
type AccountRepository struct {
	db store.DB
	tx *store.Transactor
}

var _ account.Repository = (*AccountRepository)(nil)

// NewAccountRepository creates a repository backed by db.
func NewAccountRepository(db store.DB) *AccountRepository {
	return &AccountRepository{db: db, tx: store.NewTransactor(db)}
}

const selectAccount = `SELECT id, name, email, password_hash, salt, created_at FROM accounts`

// Create inserts the account, its stats row and starter items in one transaction.
func (r *AccountRepository) Create(ctx context.Context, acct *account.Account, bundle account.StarterBundle) error {
	return r.tx.InTransaction(ctx, func(ctx context.Context) error {
		q := store.Conn(ctx, r.db)

		_, err := q.Exec(ctx, `
			INSERT INTO accounts (id, name, email, password_hash, salt, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, acct.ID.String(), acct.Name, acct.Email, acct.PasswordHash, acct.Salt, acct.CreatedAt)
		if err != nil {
			if ok, constraint := store.IsUniqueViolation(err); ok {
				return oops.Code("ACCOUNT_CONFLICT").
					With("name", acct.Name).
					With("constraint", constraint).
					Wrap(account.ErrConflict)
			}
			return oops.Code("ACCOUNT_CREATE_FAILED").
				With("operation", "insert account").
				With("name", acct.Name).
				Wrap(err)
		}

		_, err = q.Exec(ctx, `
			INSERT INTO stats (account_id, xp, coins, bucks, total_playtime)
			VALUES ($1, $2, $3, $4, $5)
		`, acct.ID.String(), bundle.Stats.XP, bundle.Stats.Coins, bundle.Stats.Bucks, bundle.Stats.Playtime)
		if err != nil {
			return oops.Code("ACCOUNT_CREATE_FAILED").
				With("operation", "insert stats").
				With("account_id", acct.ID.String()).
				Wrap(err)
		}

		for _, item := range bundle.Items {
			_, err = q.Exec(ctx, `
				INSERT INTO inventory_items (item_uuid, account_id, definition_id, state_blob)
				VALUES ($1, $2, $3, $4)
			`, item.ID, acct.ID.String(), item.DefinitionID, item.State)
			if err != nil {
				return oops.Code("ACCOUNT_CREATE_FAILED").
					With("operation", "insert starter item").
					With("account_id", acct.ID.String()).
					With("definition_id", item.DefinitionID).
					Wrap(err)
			}
		}
		return nil
	})
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id ulid.ULID) (*account.Account, error) {
	return r.getOne(ctx, selectAccount+` WHERE id = $1`, "id", id.String())
}

// GetByName retrieves an account by display name, ignoring case.
func (r *AccountRepository) GetByName(ctx context.Context, name string) (*account.Account, error) {
	return r.getOne(ctx, selectAccount+` WHERE LOWER(name) = LOWER($1)`, "name", name)
}

// GetByEmail retrieves an account by email, ignoring case.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.getOne(ctx, selectAccount+` WHERE LOWER(email) = LOWER($1)`, "email", email)
}

func (r *AccountRepository) getOne(ctx context.Context, query, key, value string) (*account.Account, error) {
	var (
		acct account.Account
		id   string
	)
	err := store.Conn(ctx, r.db).QueryRow(ctx, query, value).
		Scan(&id, &acct.Name, &acct.Email, &acct.PasswordHash, &acct.Salt, &acct.CreatedAt)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, oops.Code("ACCOUNT_NOT_FOUND").With(key, value).Wrap(account.ErrNotFound)
		}
		return nil, oops.Code("ACCOUNT_QUERY_FAILED").With(key, value).Wrap(err)
	}

	acct.ID, err = ulid.ParseStrict(id)
	if err != nil {
		return nil, oops.Code("ACCOUNT_QUERY_FAILED").
			With(key, value).
			With("operation", "parse account id").
			Wrap(err)
	}
	return &acct, nil
}

// UpdatePassword replaces the hash and salt of the named account.
func (r *AccountRepository) UpdatePassword(ctx context.Context, name, passwordHash, salt string) error {
	tag, err := store.Conn(ctx, r.db).Exec(ctx, `
		UPDATE accounts SET password_hash = $2, salt = $3 WHERE LOWER(name) = LOWER($1)
	`, name, passwordHash, salt)
	if err != nil {
		return oops.Code("ACCOUNT_UPDATE_FAILED").
			With("operation", "update password").
			With("name", name).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").With("name", name).Wrap(account.ErrNotFound)
	}
	return nil
}
