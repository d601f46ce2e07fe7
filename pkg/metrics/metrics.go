package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntentsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_intents_classified_total",
			Help: "Total number of inputs mapped to an intent",
		},
		[]string{"domain", "action", "source"},
	)

	IntentMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_intent_misses_total",
			Help: "Total number of inputs no intent could be found for",
		},
	)

	ActionsExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_actions_executed_total",
			Help: "Total number of executed actions by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	OracleRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_oracle_requests_total",
			Help: "Total number of remote oracle requests by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	OracleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_oracle_duration_seconds",
			Help:    "Duration of remote oracle requests in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"backend"},
	)

	StaleSessionsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_stale_sessions_closed_total",
			Help: "Total number of chat sessions deactivated by the cleanup job",
		},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeEmpty   = "empty"
	OutcomeTimeout = "timeout"
)
