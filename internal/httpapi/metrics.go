// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Requests counts handled requests.
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tidewater_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration observes handler latency.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tidewater_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RegisterMetrics registers the HTTP metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Requests, RequestDuration)
}

func recordRequest(method, route string, status int, elapsed time.Duration) {
	Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
