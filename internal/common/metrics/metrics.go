// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_fetch_attempts_total",
			Help: "Total number of live API fetch attempts",
		},
		[]string{"outcome"},
	)

	FetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_fetch_failures_total",
			Help: "Total number of terminal fetch failures by error code",
		},
		[]string{"error_code"},
	)

	RowsNormalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_rows_normalized_total",
			Help: "Total number of menu item rows normalized per platform",
		},
		[]string{"platform"},
	)

	ReconcileRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_reconcile_runs_total",
			Help: "Total number of reconciliation runs by overall outcome",
		},
		[]string{"outcome"},
	)

	ReconcileDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "menu_reconcile_duration_seconds",
			Help: "Duration of a reconciliation run in seconds",
		},
		[]string{"platform_guess"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_payload_cache_hits_total",
			Help: "Payload cache lookups by result",
		},
		[]string{"result"},
	)
)
