// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package player

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Status labels for player operation metrics.
const (
	StatusSuccess  = "success"
	StatusInvalid  = "invalid"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

var (
	// Operations counts player state operations by outcome.
	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tidewater_player_operations_total",
			Help: "Total number of player state operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// EffectsExpired counts effects removed by expiry cleanup.
	EffectsExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tidewater_effects_expired_total",
		Help: "Total number of expired effects removed",
	})
)

// RegisterMetrics registers player metrics with reg.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Operations, EffectsExpired)
}

func recordOperation(operation string, err error) {
	Operations.WithLabelValues(operation, operationStatus(err)).Inc()
}

func operationStatus(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrUnsupportedItemType),
		errors.Is(err, ErrItemTypeMismatch),
		errors.Is(err, ErrUnknownDefinition):
		return StatusInvalid
	default:
		return StatusError
	}
}
