// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package player

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/tidewater/internal/ident"
)

// Mail limits.
const (
	MaxMailTitleLength   = 120
	MaxMailMessageLength = 4000
	MaxMailReceivers     = 100
)

// SendMail delivers m to every receiver in one transaction and returns the
// new mail id. Duplicate receivers get a single mailbox row.
func (s *Service) SendMail(ctx context.Context, m Mail) (ulid.ULID, error) {
	id, err := s.sendMail(ctx, m)
	recordOperation("send_mail", err)
	return id, err
}

func (s *Service) sendMail(ctx context.Context, m Mail) (ulid.ULID, error) {
	m.Title = strings.TrimSpace(m.Title)
	switch {
	case m.Title == "":
		return ulid.ULID{}, invalid("PLAYER_INVALID_MAIL", "title is required")
	case len(m.Title) > MaxMailTitleLength:
		return ulid.ULID{}, invalid("PLAYER_INVALID_MAIL", "title exceeds %d bytes", MaxMailTitleLength)
	case len(m.Message) > MaxMailMessageLength:
		return ulid.ULID{}, invalid("PLAYER_INVALID_MAIL", "message exceeds %d bytes", MaxMailMessageLength)
	case m.SenderID != nil && ident.IsZero(*m.SenderID):
		return ulid.ULID{}, invalid("PLAYER_INVALID_MAIL", "sender id is zero")
	}

	receivers := make([]ulid.ULID, 0, len(m.Receivers))
	seen := make(map[ulid.ULID]struct{}, len(m.Receivers))
	for _, r := range m.Receivers {
		if ident.IsZero(r) {
			return ulid.ULID{}, invalid("PLAYER_INVALID_MAIL", "receiver id is zero")
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		receivers = append(receivers, r)
	}
	switch {
	case len(receivers) == 0:
		return ulid.ULID{}, invalid("PLAYER_INVALID_MAIL", "at least one receiver is required")
	case len(receivers) > MaxMailReceivers:
		return ulid.ULID{}, invalid("PLAYER_INVALID_MAIL", "more than %d receivers", MaxMailReceivers)
	}

	m.ID = ident.New()
	m.Receivers = receivers
	m.SentAt = s.now().UTC().Truncate(time.Microsecond)

	if err := s.mail.Create(ctx, m); err != nil {
		account := ulid.ULID{}
		if m.SenderID != nil {
			account = *m.SenderID
		}
		return ulid.ULID{}, wrap(err, "create mail", account)
	}
	return m.ID, nil
}

// DeleteMail removes the mail from the account's mailbox.
func (s *Service) DeleteMail(ctx context.Context, account, mailID ulid.ULID) error {
	err := s.mail.Delete(ctx, account, mailID)
	recordOperation("delete_mail", err)
	if err != nil {
		return wrap(err, "delete mail", account)
	}
	return nil
}

// MarkRead sets the read flag of the account's copy.
func (s *Service) MarkRead(ctx context.Context, account, mailID ulid.ULID, read bool) error {
	err := s.mail.SetRead(ctx, account, mailID, read)
	recordOperation("mark_read", err)
	if err != nil {
		return wrap(err, "mark read", account)
	}
	return nil
}

// MarkArchived sets the archived flag of the account's copy.
func (s *Service) MarkArchived(ctx context.Context, account, mailID ulid.ULID, archived bool) error {
	err := s.mail.SetArchived(ctx, account, mailID, archived)
	recordOperation("mark_archived", err)
	if err != nil {
		return wrap(err, "mark archived", account)
	}
	return nil
}
