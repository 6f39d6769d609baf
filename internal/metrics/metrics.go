package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Voting engine metrics
var (
	// VotesCastTotal counts successful casts by target kind and ledger transition
	VotesCastTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_votes_cast_total",
			Help: "Successful vote casts by target kind and transition",
		},
		[]string{"kind", "transition"},
	)

	// VoteCastErrors counts failed casts by error class
	VoteCastErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_vote_cast_errors_total",
			Help: "Failed vote casts by error class",
		},
		[]string{"reason"},
	)

	// VoteCastDuration tracks cast latency including lock waits
	VoteCastDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forum_vote_cast_duration_seconds",
			Help:    "Vote cast duration in seconds, lock waits included",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"kind"},
	)

	// ReconcileDriftTotal accumulates the absolute counter drift corrected by reconciliation
	ReconcileDriftTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_reconcile_drift_total",
			Help: "Absolute drift corrected by reconciliation, by counter",
		},
		[]string{"counter"},
	)
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts API requests by route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)
)
