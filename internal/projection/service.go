// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package projection

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service assembles UserData snapshots.
type Service struct {
	reader   Reader
	snapshot Snapshotter
	logger   *slog.Logger
}

// NewService creates a Service.
func NewService(reader Reader, snapshot Snapshotter, logger *slog.Logger) (*Service, error) {
	if reader == nil {
		return nil, oops.Code("PROJECTION_SERVICE_INVALID").Errorf("reader is required")
	}
	if snapshot == nil {
		return nil, oops.Code("PROJECTION_SERVICE_INVALID").Errorf("snapshotter is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reader: reader, snapshot: snapshot, logger: logger}, nil
}

// RetrieveAll reads every sub-aggregate of id from one snapshot.
func (s *Service) RetrieveAll(ctx context.Context, id ulid.ULID) (*UserData, error) {
	var data *UserData
	err := s.snapshot.InSnapshot(ctx, func(ctx context.Context) error {
		profile, err := s.reader.Profile(ctx, id)
		if err != nil {
			return err
		}
		d := &UserData{
			Name:          profile.Name,
			XP:            profile.XP,
			Coins:         profile.Coins,
			Bucks:         profile.Bucks,
			TotalPlaytime: profile.TotalPlaytime,
			SelectedRod:   profile.SelectedRod,
			SelectedBait:  profile.SelectedBait,
		}
		if d.FishData, err = s.reader.Fish(ctx, id); err != nil {
			return oops.With("part", "fish").Wrap(err)
		}
		if d.InventoryItems, err = s.reader.Inventory(ctx, id); err != nil {
			return oops.With("part", "inventory").Wrap(err)
		}
		if d.Mailbox, err = s.reader.Mailbox(ctx, id); err != nil {
			return oops.With("part", "mailbox").Wrap(err)
		}
		if d.Friends, err = s.reader.Friends(ctx, id); err != nil {
			return oops.With("part", "friends").Wrap(err)
		}
		if d.FriendRequests, err = s.reader.FriendRequests(ctx, id); err != nil {
			return oops.With("part", "friend_requests").Wrap(err)
		}
		data = d
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, oops.Code("PROJECTION_NOT_FOUND").With("account_id", id.String()).Wrap(err)
		case errors.Is(err, ErrCorrupt):
			s.logger.ErrorContext(ctx, "account projection is corrupt", "account_id", id.String(), "error", err)
			return nil, oops.Code("PROJECTION_CORRUPT").With("account_id", id.String()).Wrap(err)
		default:
			return nil, oops.Code("PROJECTION_READ_FAILED").With("account_id", id.String()).Wrap(err)
		}
	}
	data.normalize()
	return data, nil
}

// normalize replaces nil lists so they encode as [] rather than null.
func (d *UserData) normalize() {
	if d.FishData == nil {
		d.FishData = []FishData{}
	}
	for i := range d.FishData {
		if d.FishData[i].Areas == nil {
			d.FishData[i].Areas = []int{}
		}
		if d.FishData[i].Baits == nil {
			d.FishData[i].Baits = []int{}
		}
	}
	if d.InventoryItems == nil {
		d.InventoryItems = []InventoryItem{}
	}
	if d.Mailbox == nil {
		d.Mailbox = []MailEntry{}
	}
	if d.Friends == nil {
		d.Friends = []Friend{}
	}
	if d.FriendRequests == nil {
		d.FriendRequests = []FriendRequest{}
	}
}
