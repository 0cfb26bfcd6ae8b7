// Package services – Prometheus domain metrics
//
// HTTP-level traffic metrics live in the middleware package; the collectors
// here count domain events instead, so dashboards can track the request
// board independently of transport. Label cardinality is kept bounded:
// professions are a short fixed set and claim outcomes are won/lost.
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// requestsCreated counts accepted craft request submissions by profession.
	requestsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craft_requests_created_total",
			Help: "Total number of craft requests accepted.",
		},
		[]string{"profession"},
	)

	// claimAttempts counts claim attempts by outcome ("won" or "lost").
	// Lost claims are normal under contention; a high lost ratio just means
	// a busy board.
	claimAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craft_request_claims_total",
			Help: "Total number of claim attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// completionsApplied counts fulfillment reports, partial and full.
	completionsApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "craft_request_completions_total",
			Help: "Total number of completion reports applied.",
		},
	)

	// sessionsSwept counts composition sessions removed by the TTL sweeper.
	sessionsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_swept_total",
			Help: "Total number of expired sessions removed by the sweeper.",
		},
	)
)

func init() {
	prometheus.MustRegister(requestsCreated, claimAttempts, completionsApplied, sessionsSwept)
}
