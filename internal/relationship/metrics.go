// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package relationship

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Status labels for friend operation metrics.
const (
	StatusSuccess   = "success"
	StatusDuplicate = "duplicate"
	StatusNotFound  = "not_found"
	StatusInvalid   = "invalid"
	StatusError     = "error"
)

// FriendOperations counts relationship transitions by outcome.
// Use RegisterMetrics to expose it on /metrics.
var FriendOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tidewater_friend_operations_total",
		Help: "Total number of friend operations by operation and status",
	},
	[]string{"operation", "status"},
)

// RegisterMetrics registers relationship metrics with reg.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(FriendOperations)
}

// RecordOperation increments FriendOperations for operation with the
// status derived from err.
func RecordOperation(operation string, err error) {
	FriendOperations.WithLabelValues(operation, operationStatus(err)).Inc()
}

func operationStatus(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrDuplicate):
		return StatusDuplicate
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.Is(err, ErrSelfPair), errors.Is(err, ErrInvalidSender), errors.Is(err, ErrInvalidIdentity):
		return StatusInvalid
	default:
		return StatusError
	}
}
