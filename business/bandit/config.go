package bandit

import (
	"fmt"

	"campaignAdvisor/domain"
)

type Config struct {
	Strategy domain.BanditStrategy `json:"strategy"`

	// scales the UCB bonus and the epsilon-greedy exploration rate
	ExplorationFactor float64 `json:"exploration_factor"`

	// forced pulls per arm before adaptive strategies run
	MinSampleSize int `json:"min_sample_size"`

	// epsilon = EpsilonDecay^totalPulls * ExplorationFactor
	EpsilonDecay float64 `json:"epsilon_decay"`

	// hybrid uses UCB below this many total pulls, Thompson above
	HybridSwitchPulls int `json:"hybrid_switch_pulls"`

	// outcome history cap, oldest evicted first
	MaxOutcomes int `json:"max_outcomes"`

	// event-type rewards for callers that report events instead of numbers
	RewardGenerated  float64 `json:"reward_generated"`
	RewardDNSValid   float64 `json:"reward_dns_valid"`
	RewardHTTPValid  float64 `json:"reward_http_valid"`
	RewardKeywordHit float64 `json:"reward_keyword_hit"`
	RewardLead       float64 `json:"reward_lead"`
}

// ConfigPatch is a partial update; nil fields are left untouched.
type ConfigPatch struct {
	Strategy          *domain.BanditStrategy `json:"strategy,omitempty"`
	ExplorationFactor *float64               `json:"exploration_factor,omitempty"`
	MinSampleSize     *int                   `json:"min_sample_size,omitempty"`
	EpsilonDecay      *float64               `json:"epsilon_decay,omitempty"`
	HybridSwitchPulls *int                   `json:"hybrid_switch_pulls,omitempty"`
	MaxOutcomes       *int                   `json:"max_outcomes,omitempty"`
}

const (
	defaultExplorationFactor = 1.0
	defaultMinSampleSize     = 10
	defaultEpsilonDecay      = 0.995
	defaultHybridSwitchPulls = 100
	defaultMaxOutcomes       = 1000
	defaultRewardGenerated   = 0.0
	defaultRewardDNSValid    = 0.25
	defaultRewardHTTPValid   = 0.5
	defaultRewardKeywordHit  = 0.75
	defaultRewardLead        = 1.0
)

func DefaultConfig() Config {
	return Config{
		Strategy:          domain.StrategyHybrid,
		ExplorationFactor: defaultExplorationFactor,
		MinSampleSize:     defaultMinSampleSize,
		EpsilonDecay:      defaultEpsilonDecay,
		HybridSwitchPulls: defaultHybridSwitchPulls,
		MaxOutcomes:       defaultMaxOutcomes,

		RewardGenerated:  defaultRewardGenerated,
		RewardDNSValid:   defaultRewardDNSValid,
		RewardHTTPValid:  defaultRewardHTTPValid,
		RewardKeywordHit: defaultRewardKeywordHit,
		RewardLead:       defaultRewardLead,
	}
}

func ParseStrategy(s string) (domain.BanditStrategy, error) {
	switch st := domain.BanditStrategy(s); st {
	case domain.StrategyUCB, domain.StrategyThompson, domain.StrategyEpsilonGreedy, domain.StrategyHybrid:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

func (c Config) Validate() error {
	if _, err := ParseStrategy(string(c.Strategy)); err != nil {
		return err
	}
	if c.ExplorationFactor < 0 {
		return fmt.Errorf("%w: exploration factor must be >= 0", ErrInvalidConfig)
	}
	if c.MinSampleSize < 0 {
		return fmt.Errorf("%w: min sample size must be >= 0", ErrInvalidConfig)
	}
	if c.EpsilonDecay <= 0 || c.EpsilonDecay > 1 {
		return fmt.Errorf("%w: epsilon decay must be in (0, 1]", ErrInvalidConfig)
	}
	if c.MaxOutcomes <= 0 {
		return fmt.Errorf("%w: max outcomes must be > 0", ErrInvalidConfig)
	}
	return nil
}

// Apply returns a copy of c with the patch applied and validated.
func (c Config) Apply(p ConfigPatch) (Config, error) {
	out := c
	if p.Strategy != nil {
		out.Strategy = *p.Strategy
	}
	if p.ExplorationFactor != nil {
		out.ExplorationFactor = *p.ExplorationFactor
	}
	if p.MinSampleSize != nil {
		out.MinSampleSize = *p.MinSampleSize
	}
	if p.EpsilonDecay != nil {
		out.EpsilonDecay = *p.EpsilonDecay
	}
	if p.HybridSwitchPulls != nil {
		out.HybridSwitchPulls = *p.HybridSwitchPulls
	}
	if p.MaxOutcomes != nil {
		out.MaxOutcomes = *p.MaxOutcomes
	}

	if err := out.Validate(); err != nil {
		return c, err
	}
	return out, nil
}
