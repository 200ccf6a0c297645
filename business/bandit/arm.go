package bandit

import (
	"math"
	"time"

	"campaignAdvisor/domain"
)

// z for a two-sided 95% interval
const zScore95 = 1.96

type armState struct {
	arm domain.BanditArm

	// Welford running mean and sum of squared deviations over every reward.
	mean float64
	m2   float64
}

// accepts reports whether folding reward into the running stats keeps every
// field finite.
func (st *armState) accepts(reward float64) bool {
	total := st.arm.Stats.TotalReward + reward
	if math.IsInf(total, 0) {
		return false
	}

	n := float64(st.arm.Stats.Pulls + 1)
	delta := reward - st.mean
	mean := st.mean + delta/n
	m2 := st.m2 + delta*(reward-mean)

	return !math.IsInf(delta, 0) && !math.IsInf(m2, 0) && !math.IsNaN(m2)
}

func (st *armState) observe(reward float64, now time.Time) {
	stats := &st.arm.Stats

	stats.Pulls++
	stats.TotalReward += reward
	stats.AverageReward = stats.TotalReward / float64(stats.Pulls)

	delta := reward - st.mean
	st.mean += delta / float64(stats.Pulls)
	st.m2 += delta * (reward - st.mean)

	stats.Confidence = st.confidence()
	stats.LastUpdated = now
}

// confidence is the 95% CI half-width of the mean; 0 below two pulls.
func (st *armState) confidence() float64 {
	n := st.arm.Stats.Pulls
	if n < 2 {
		return 0
	}

	variance := st.m2 / float64(n-1)
	if variance < 0 {
		variance = 0
	}

	return zScore95 * math.Sqrt(variance/float64(n))
}
