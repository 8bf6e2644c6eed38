// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/player"
	"github.com/holomush/tidewater/internal/store"
)

// MailRepository implements player.MailRepository.
type MailRepository struct {
	db store.DB
	tx *store.Transactor
}

var _ player.MailRepository = (*MailRepository)(nil)

// NewMailRepository creates a repository backed by db.
func NewMailRepository(db store.DB) *MailRepository {
	return &MailRepository{db: db, tx: store.NewTransactor(db)}
}

// Create inserts the mail body and one mailbox row per receiver in one
// transaction. An unknown sender or receiver is reported as ErrNotFound.
func (r *MailRepository) Create(ctx context.Context, m player.Mail) error {
	var sender *string
	if m.SenderID != nil {
		s := m.SenderID.String()
		sender = &s
	}

	return r.tx.InTransaction(ctx, func(ctx context.Context) error {
		q := store.Conn(ctx, r.db)
		if _, err := q.Exec(ctx, `
			INSERT INTO mail (id, sender_id, title, message, sent_at)
			VALUES ($1, $2, $3, $4, $5)
		`, m.ID.String(), sender, m.Title, m.Message, m.SentAt); err != nil {
			if m.SenderID != nil && store.IsForeignKeyViolation(err) {
				return oops.With("role", "sender").Wrap(notFound("account", *m.SenderID))
			}
			return mailFailed(err, "insert mail", m.ID)
		}

		for _, receiver := range m.Receivers {
			if _, err := q.Exec(ctx, `
				INSERT INTO mailbox (account_id, mail_id) VALUES ($1, $2)
			`, receiver.String(), m.ID.String()); err != nil {
				if store.IsForeignKeyViolation(err) {
					return oops.With("role", "receiver").Wrap(notFound("account", receiver))
				}
				return mailFailed(err, "insert mailbox row", m.ID)
			}
		}
		return nil
	})
}

// Delete removes the account's mailbox row, then the body if no other
// mailbox still references it.
func (r *MailRepository) Delete(ctx context.Context, account, mailID ulid.ULID) error {
	return r.tx.InTransaction(ctx, func(ctx context.Context) error {
		q := store.Conn(ctx, r.db)
		tag, err := q.Exec(ctx, `
			DELETE FROM mailbox WHERE account_id = $1 AND mail_id = $2
		`, account.String(), mailID.String())
		if err != nil {
			return mailFailed(err, "delete mailbox row", mailID)
		}
		if tag.RowsAffected() == 0 {
			return oops.With("mail_id", mailID.String()).Wrap(notFound("mail", account))
		}

		if _, err := q.Exec(ctx, `
			DELETE FROM mail
			WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM mailbox WHERE mail_id = $1)
		`, mailID.String()); err != nil {
			return mailFailed(err, "delete orphaned mail", mailID)
		}
		return nil
	})
}

// SetRead sets the read flag of the account's mailbox row.
func (r *MailRepository) SetRead(ctx context.Context, account, mailID ulid.ULID, read bool) error {
	return r.setFlag(ctx, `UPDATE mailbox SET read = $3 WHERE account_id = $1 AND mail_id = $2`,
		"set read", account, mailID, read)
}

// SetArchived sets the archived flag of the account's mailbox row.
func (r *MailRepository) SetArchived(ctx context.Context, account, mailID ulid.ULID, archived bool) error {
	return r.setFlag(ctx, `UPDATE mailbox SET archived = $3 WHERE account_id = $1 AND mail_id = $2`,
		"set archived", account, mailID, archived)
}

func (r *MailRepository) setFlag(ctx context.Context, stmt, operation string, account, mailID ulid.ULID, value bool) error {
	tag, err := store.Conn(ctx, r.db).Exec(ctx, stmt, account.String(), mailID.String(), value)
	if err != nil {
		return mailFailed(err, operation, mailID)
	}
	if tag.RowsAffected() == 0 {
		return oops.With("mail_id", mailID.String()).Wrap(notFound("mail", account))
	}
	return nil
}

func mailFailed(err error, operation string, mailID ulid.ULID) error {
	return oops.Code("PLAYER_STORE_FAILED").
		With("operation", operation).
		With("mail_id", mailID.String()).
		Wrap(err)
}
