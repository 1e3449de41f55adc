// Package telemetry provides Prometheus metrics, HTTP instrumentation, and
// tracing helpers for meetupd.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// LatencyBuckets covers typical API latencies from 5ms to 5s.
var LatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

var (
	// RequestsTotal counts HTTP requests by method, route pattern, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetupd_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meetupd_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: LatencyBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthOutcomesTotal counts authentication gate decisions.
	AuthOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetupd_auth_outcomes_total",
			Help: "Authentication gate outcomes",
		},
		[]string{"decision", "code"},
	)

	// ErrorResponsesTotal counts structured error responses by code name.
	ErrorResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetupd_error_responses_total",
			Help: "Structured error responses",
		},
		[]string{"code"},
	)

	// TicketsSpentTotal counts tickets spent to unlock other users.
	TicketsSpentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meetupd_tickets_spent_total",
			Help: "Tickets spent",
		},
	)

	// TeamsOpenedTotal counts teams opened by users.
	TeamsOpenedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meetupd_teams_opened_total",
			Help: "Teams opened",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthOutcomesTotal,
		ErrorResponsesTotal,
		TicketsSpentTotal,
		TeamsOpenedTotal,
	)
}
