package dating

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeNotFound       = "not_found"
	outcomeQuotaExhausted = "quota_exhausted"
	outcomePending        = "pending"
	outcomeRanked         = "ranked"
	outcomeInvalid        = "invalid"
)

var (
	selectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_selections_total",
			Help: "Total number of match selections by outcome",
		},
		[]string{"outcome"},
	)

	matchesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_matches_created_total",
			Help: "Total number of matches created",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	selectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_selection_duration_seconds",
			Help:    "Time spent loading data and selecting matches",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func recordSelection(outcome string) {
	selectionsTotal.WithLabelValues(outcome).Inc()
}

func recordMatchesCreated(n int) {
	matchesCreated.Add(float64(n))
}

func recordCompatibilityScore(score int) {
	compatibilityScores.Observe(float64(score))
}

func recordSelectionDuration(d time.Duration) {
	selectionDuration.Observe(d.Seconds())
}
