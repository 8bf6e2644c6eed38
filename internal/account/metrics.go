// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package account

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Status labels for authentication metrics.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusError    = "error"
)

// AuthAttempts counts authentication operations by outcome.
// Use RegisterMetrics to expose it on /metrics.
var AuthAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tidewater_auth_attempts_total",
		Help: "Total number of authentication operations by operation and status",
	},
	[]string{"operation", "status"},
)

// RegisterMetrics registers account metrics with reg.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
}

func recordAttempt(operation string, err error, rejected ...error) {
	AuthAttempts.WithLabelValues(operation, attemptStatus(err, rejected...)).Inc()
}

func attemptStatus(err error, rejected ...error) string {
	if err == nil {
		return StatusSuccess
	}
	for _, r := range rejected {
		if errors.Is(err, r) {
			return StatusRejected
		}
	}
	return StatusError
}
