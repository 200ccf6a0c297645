package bandit

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BanditDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_decisions_total",
			Help: "Count of arm selections by strategy.",
		},
		[]string{"strategy"},
	)

	BanditOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_outcomes_total",
			Help: "Count of recorded outcomes by arm.",
		},
		[]string{"arm_id"},
	)

	BanditRewardObserved = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bandit_reward",
			Help:    "Distribution of recorded rewards.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	BanditTelemetryFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bandit_telemetry_failures_total",
			Help: "Telemetry sink errors and panics swallowed by the selector.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		BanditDecisionsTotal,
		BanditOutcomesTotal,
		BanditRewardObserved,
		BanditTelemetryFailuresTotal,
	)
}
