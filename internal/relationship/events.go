// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package relationship

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Routing keys for relationship events.
const (
	EventRequestSent     = "relationship.request.sent"
	EventRequestRemoved  = "relationship.request.removed"
	EventRequestAccepted = "relationship.request.accepted"
	EventRequestRejected = "relationship.request.rejected"
	EventFriendAdded     = "relationship.friend.added"
	EventFriendRemoved   = "relationship.friend.removed"
)

// Event is the payload published after a successful transition.
type Event struct {
	Low        ulid.ULID  `json:"user_low"`
	High       ulid.ULID  `json:"user_high"`
	SenderID   *ulid.ULID `json:"sender_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
