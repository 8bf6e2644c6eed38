// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package relationship

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/events"
	"github.com/holomush/tidewater/pkg/errutil"
)

// Service enforces the request and friendship transitions:
// none -> requested -> friends, requested -> none, friends -> none.
type Service struct {
	repo      Repository
	tx        Transactor
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithPublisher sets where transition events go. Defaults to a NoopPublisher.
func WithPublisher(p events.Publisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

// NewService creates a Service.
func NewService(repo Repository, tx Transactor, opts ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, oops.Code("RELATIONSHIP_SERVICE_INVALID").Errorf("relationship repository is required")
	}
	if tx == nil {
		return nil, oops.Code("RELATIONSHIP_SERVICE_INVALID").Errorf("transactor is required")
	}
	s := &Service{repo: repo, tx: tx, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		return nil, oops.Code("RELATIONSHIP_SERVICE_INVALID").Errorf("logger cannot be nil")
	}
	if s.publisher == nil {
		s.publisher = events.NewNoopPublisher(s.logger)
	}
	return s, nil
}

// AddFriendRequest records a pending request from sender, who must be a or b.
func (s *Service) AddFriendRequest(ctx context.Context, a, b, sender ulid.ULID) (err error) {
	defer func() { RecordOperation("add_friend_request", err) }()

	pair, err := NewPair(a, b)
	if err != nil {
		return err
	}
	if !pair.Contains(sender) {
		return oops.Code("RELATIONSHIP_INVALID_SENDER").
			With("pair", pair.String()).
			With("sender_id", sender.String()).
			Wrap(ErrInvalidSender)
	}
	if err := s.repo.InsertRequest(ctx, pair, sender); err != nil {
		return wrapStoreErr(err, "insert request", pair)
	}
	s.publish(ctx, EventRequestSent, pair, &sender)
	return nil
}

// RemoveFriendRequest deletes the pending request for a and b.
func (s *Service) RemoveFriendRequest(ctx context.Context, a, b ulid.ULID) (err error) {
	defer func() { RecordOperation("remove_friend_request", err) }()

	pair, err := NewPair(a, b)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRequest(ctx, pair); err != nil {
		return wrapStoreErr(err, "delete request", pair)
	}
	s.publish(ctx, EventRequestRemoved, pair, nil)
	return nil
}

// HandleRequest accepts or rejects the pending request for a and b.
// Accepting inserts the friendship and deletes the request in one
// transaction; if either step fails neither is kept. Rejecting only deletes
// the request.
func (s *Service) HandleRequest(ctx context.Context, a, b ulid.ULID, accepted bool) (err error) {
	defer func() { RecordOperation("handle_request", err) }()

	pair, err := NewPair(a, b)
	if err != nil {
		return err
	}

	if !accepted {
		if err := s.repo.DeleteRequest(ctx, pair); err != nil {
			return wrapStoreErr(err, "reject request", pair)
		}
		s.publish(ctx, EventRequestRejected, pair, nil)
		return nil
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertFriendship(ctx, pair); err != nil {
			return wrapStoreErr(err, "insert friendship", pair)
		}
		if err := s.repo.DeleteRequest(ctx, pair); err != nil {
			return wrapStoreErr(err, "delete accepted request", pair)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, EventRequestAccepted, pair, nil)
	return nil
}

// AddFriend inserts the friendship for a and b. A pending request for the
// pair is deleted in the same transaction so the two never coexist.
func (s *Service) AddFriend(ctx context.Context, a, b ulid.ULID) (err error) {
	defer func() { RecordOperation("add_friend", err) }()

	pair, err := NewPair(a, b)
	if err != nil {
		return err
	}
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertFriendship(ctx, pair); err != nil {
			return wrapStoreErr(err, "insert friendship", pair)
		}
		if err := s.repo.DeleteRequest(ctx, pair); err != nil && !errors.Is(err, ErrNotFound) {
			return wrapStoreErr(err, "delete superseded request", pair)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, EventFriendAdded, pair, nil)
	return nil
}

// RemoveFriend deletes the friendship for a and b.
func (s *Service) RemoveFriend(ctx context.Context, a, b ulid.ULID) (err error) {
	defer func() { RecordOperation("remove_friend", err) }()

	pair, err := NewPair(a, b)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteFriendship(ctx, pair); err != nil {
		return wrapStoreErr(err, "delete friendship", pair)
	}
	s.publish(ctx, EventFriendRemoved, pair, nil)
	return nil
}

// ListFriends returns the friendships involving id.
func (s *Service) ListFriends(ctx context.Context, id ulid.ULID) ([]Friendship, error) {
	friends, err := s.repo.ListFriendships(ctx, id)
	if err != nil {
		return nil, oops.Code("RELATIONSHIP_LIST_FAILED").With("account_id", id.String()).Wrap(err)
	}
	return friends, nil
}

// ListRequests returns the pending requests involving id.
func (s *Service) ListRequests(ctx context.Context, id ulid.ULID) ([]Request, error) {
	reqs, err := s.repo.ListRequests(ctx, id)
	if err != nil {
		return nil, oops.Code("RELATIONSHIP_LIST_FAILED").With("account_id", id.String()).Wrap(err)
	}
	return reqs, nil
}

// publish sends a transition event. The transition has already committed,
// so a broker failure is logged rather than returned.
func (s *Service) publish(ctx context.Context, key string, pair Pair, sender *ulid.ULID) {
	ev := Event{Low: pair.Low, High: pair.High, SenderID: sender, OccurredAt: s.now().UTC()}
	if err := s.publisher.Publish(ctx, key, ev); err != nil {
		errutil.LogError(s.logger, "publish relationship event", err)
	}
}

func wrapStoreErr(err error, operation string, pair Pair) error {
	code := "RELATIONSHIP_STORE_FAILED"
	switch {
	case errors.Is(err, ErrDuplicate):
		code = "RELATIONSHIP_DUPLICATE"
	case errors.Is(err, ErrNotFound):
		code = "RELATIONSHIP_NOT_FOUND"
	}
	return oops.Code(code).
		With("operation", operation).
		With("pair", pair.String()).
		Wrap(err)
}
