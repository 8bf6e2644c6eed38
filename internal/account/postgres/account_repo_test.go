// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/tidewater/internal/account"
	"github.com/holomush/tidewater/pkg/errutil"
)

var accountColumns = []string{"id", "name", "email", "password_hash", "salt", "created_at"}

func newTestAccount() *account.Account {
	return &account.Account{
		ID:           ulid.Make(),
		Name:         "alice",
		Email:        "a@x.com",
		PasswordHash: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		Salt:         "00112233445566778899aabbccddeeff",
		CreatedAt:    time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func testBundle() account.StarterBundle {
	return account.StarterBundle{
		Stats: account.DefaultStarterStats(),
		Items: []account.StarterItem{
			{ID: uuid.New(), DefinitionID: 1000},
			{ID: uuid.New(), DefinitionID: 0},
		},
	}
}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts account, stats and starter items in one transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		acct := newTestAccount()
		bundle := testBundle()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(acct.ID.String(), acct.Name, acct.Email, acct.PasswordHash, acct.Salt, acct.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO stats`).
			WithArgs(acct.ID.String(), 0, 25, 5000, 0).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		for _, item := range bundle.Items {
			mock.ExpectExec(`INSERT INTO inventory_items`).
				WithArgs(item.ID, acct.ID.String(), item.DefinitionID, "").
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
		}
		mock.ExpectCommit()

		repo := NewAccountRepository(mock)
		require.NoError(t, repo.Create(ctx, acct, bundle))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("starter item failure rolls back the whole registration", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		acct := newTestAccount()

		bundle := testBundle()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(acct.ID.String(), acct.Name, acct.Email, acct.PasswordHash, acct.Salt, acct.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO stats`).
			WithArgs(acct.ID.String(), 0, 25, 5000, 0).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO inventory_items`).
			WithArgs(bundle.Items[0].ID, acct.ID.String(), 1000, "").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		repo := NewAccountRepository(mock)
		err = repo.Create(ctx, acct, bundle)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "ACCOUNT_CREATE_FAILED")
		errutil.AssertErrorContext(t, err, "operation", "insert starter item")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(pgxmock.AnyArg(), "alice", "a@x.com", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: "idx_accounts_name_lower",
		})
		mock.ExpectRollback()

		repo := NewAccountRepository(mock)
		err = repo.Create(ctx, newTestAccount(), testBundle())
		require.ErrorIs(t, err, account.ErrConflict)
		errutil.AssertErrorCode(t, err, "ACCOUNT_CONFLICT")
		errutil.AssertErrorContext(t, err, "constraint", "idx_accounts_name_lower")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_Get(t *testing.T) {
	ctx := context.Background()
	acct := newTestAccount()

	row := func() *pgxmock.Rows {
		return pgxmock.NewRows(accountColumns).
			AddRow(acct.ID.String(), acct.Name, acct.Email, acct.PasswordHash, acct.Salt, acct.CreatedAt)
	}

	t.Run("by id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM accounts WHERE id = \$1`).WithArgs(acct.ID.String()).WillReturnRows(row())

		got, err := NewAccountRepository(mock).GetByID(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, acct, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("by name ignores case", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`WHERE LOWER\(name\) = LOWER\(\$1\)`).WithArgs("ALICE").WillReturnRows(row())

		got, err := NewAccountRepository(mock).GetByName(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, acct.ID, got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("by email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`WHERE LOWER\(email\) = LOWER\(\$1\)`).WithArgs("a@x.com").WillReturnRows(row())

		got, err := NewAccountRepository(mock).GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, acct.Name, got.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM accounts`).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

		_, err = NewAccountRepository(mock).GetByName(ctx, "ghost")
		require.ErrorIs(t, err, account.ErrNotFound)
		errutil.AssertErrorCode(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("corrupt id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM accounts`).WithArgs("alice").WillReturnRows(
			pgxmock.NewRows(accountColumns).AddRow("nope", "alice", "a@x.com", "h", "s", acct.CreatedAt))

		_, err = NewAccountRepository(mock).GetByName(ctx, "alice")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "ACCOUNT_QUERY_FAILED")
	})
}

func TestAccountRepository_UpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("updates", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE accounts SET password_hash`).
			WithArgs("alice", "newhash", "newsalt").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, NewAccountRepository(mock).UpdatePassword(ctx, "alice", "newhash", "newsalt"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE accounts SET password_hash`).
			WithArgs("ghost", "h", "s").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err = NewAccountRepository(mock).UpdatePassword(ctx, "ghost", "h", "s")
		require.ErrorIs(t, err, account.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
