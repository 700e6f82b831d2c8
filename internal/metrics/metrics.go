// Package metrics exposes Sitrep's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Brief pipeline metrics
	BriefsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitrep_briefs_generated_total",
			Help: "Total number of briefs generated",
		},
		[]string{"surface"},
	)

	BriefDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sitrep_brief_duration_seconds",
			Help:    "End-to-end brief generation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Source fan-out metrics
	SourceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitrep_source_fetches_total",
			Help: "Total number of per-source fetches by outcome",
		},
		[]string{"source", "outcome"},
	)

	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitrep_source_fetch_duration_seconds",
			Help:    "Per-source fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// LLM polish metrics
	PolishOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitrep_polish_outcomes_total",
			Help: "Total number of polish attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Outcome label values shared by SourceFetches and PolishOutcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeSkipped  = "skipped"
	OutcomeRejected = "rejected"
)
