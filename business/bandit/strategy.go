package bandit

import (
	"math"

	"campaignAdvisor/domain"
)

// The select* helpers must be called with mu held.

// selectUCB picks argmax avg + c*sqrt(2 ln N / n); an unpulled arm wins outright.
func (s *Selector) selectUCB() domain.BanditDecision {
	for _, id := range s.order {
		if s.arms[id].arm.Stats.Pulls == 0 {
			return domain.BanditDecision{
				ArmID:             id,
				Strategy:          domain.StrategyUCB,
				ExplorationFactor: s.cfg.ExplorationFactor,
			}
		}
	}

	logTotal := math.Log(float64(s.totalPulls))
	var (
		best    *armState
		bestUCB = math.Inf(-1)
	)
	for _, id := range s.order {
		st := s.arms[id]
		stats := st.arm.Stats
		bonus := s.cfg.ExplorationFactor * math.Sqrt(2*logTotal/float64(stats.Pulls))
		if ucb := stats.AverageReward + bonus; ucb > bestUCB {
			best, bestUCB = st, ucb
		}
	}

	return domain.BanditDecision{
		ArmID:             best.arm.ID,
		EstimatedReward:   best.arm.Stats.AverageReward,
		Strategy:          domain.StrategyUCB,
		Confidence:        best.arm.Stats.Confidence,
		ExplorationFactor: s.cfg.ExplorationFactor,
	}
}

// selectThompson samples each arm's Beta posterior. Rewards are read as
// pseudo-Bernoulli counts (successes = total reward), which is only sound
// for rewards in [0, 1]; counts are floored at zero so the shapes stay valid.
func (s *Selector) selectThompson() domain.BanditDecision {
	var (
		best       *armState
		bestSample = math.Inf(-1)
	)
	for _, id := range s.order {
		st := s.arms[id]
		stats := st.arm.Stats

		var sample float64
		if stats.Pulls == 0 {
			sample = s.sampler.uniform()
		} else {
			successes := math.Max(0, stats.TotalReward)
			failures := math.Max(0, float64(stats.Pulls)-stats.TotalReward)
			sample = s.sampler.beta(successes+1, failures+1)
		}

		if sample > bestSample {
			best, bestSample = st, sample
		}
	}

	return domain.BanditDecision{
		ArmID:             best.arm.ID,
		EstimatedReward:   bestSample,
		Strategy:          domain.StrategyThompson,
		Confidence:        best.arm.Stats.Confidence,
		ExplorationFactor: s.cfg.ExplorationFactor,
	}
}

// selectEpsilonGreedy explores with probability decay^N * c, otherwise takes
// the best average. The decision reports the epsilon actually used.
func (s *Selector) selectEpsilonGreedy() domain.BanditDecision {
	epsilon := math.Pow(s.cfg.EpsilonDecay, float64(s.totalPulls)) * s.cfg.ExplorationFactor

	var pick *armState
	if s.sampler.rng.Float64() < epsilon {
		pick = s.arms[s.order[s.sampler.rng.Intn(len(s.order))]]
	} else {
		for _, id := range s.order {
			st := s.arms[id]
			if pick == nil || st.arm.Stats.AverageReward > pick.arm.Stats.AverageReward {
				pick = st
			}
		}
	}

	return domain.BanditDecision{
		ArmID:             pick.arm.ID,
		EstimatedReward:   pick.arm.Stats.AverageReward,
		Strategy:          domain.StrategyEpsilonGreedy,
		Confidence:        pick.arm.Stats.Confidence,
		ExplorationFactor: epsilon,
	}
}
