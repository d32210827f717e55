// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for authentication and registration.
var (
	// authenticateDuration tracks the latency of Authenticate() calls.
	authenticateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "auth_authenticate_duration_seconds",
		Help:    "Histogram of authentication latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// authenticateAttempts counts authentication attempts by result.
	authenticateAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_authenticate_attempts_total",
		Help: "Total number of authentication attempts",
	}, []string{"result"})

	// registrations counts registration attempts by result.
	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Total number of registration attempts",
	}, []string{"result"})

	// seedRepairs counts seed admin reconciliations by action taken.
	seedRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_seed_admin_reconciliations_total",
		Help: "Total number of seed admin reconciliations",
	}, []string{"action"})
)

// recordAuthenticate records metrics for a completed authentication attempt.
func recordAuthenticate(start time.Time, result string) {
	authenticateDuration.Observe(time.Since(start).Seconds())
	authenticateAttempts.WithLabelValues(result).Inc()
}
