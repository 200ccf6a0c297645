package recommendation

import "github.com/prometheus/client_golang/prometheus"

var (
	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_scoring_duration_seconds",
			Help:    "Time spent scoring and grouping one batch of recommendations",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
		[]string{"mode"},
	)

	GroupsReturnedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_groups_total",
			Help: "Recommendation groups returned after filtering",
		},
		[]string{"mode"},
	)

	GroupsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_groups_dropped_total",
			Help: "Recommendation groups dropped by the priority threshold",
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(
		ScoringDuration,
		GroupsReturnedTotal,
		GroupsDroppedTotal,
	)
}
