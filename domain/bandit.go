package domain

import "time"

type BanditStrategy string

const (
	StrategyUCB                BanditStrategy = "ucb"
	StrategyThompson           BanditStrategy = "thompson"
	StrategyEpsilonGreedy      BanditStrategy = "epsilon_greedy"
	StrategyHybrid             BanditStrategy = "hybrid"
	StrategyDeterministicCycle BanditStrategy = "deterministic_cycle"
	StrategyDisabled           BanditStrategy = "disabled"
)

// ArmMeta is opaque to the selection algorithm.
type ArmMeta struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Version     string `json:"version,omitempty"`
}

type ArmStats struct {
	Pulls         int       `json:"pulls"`
	TotalReward   float64   `json:"total_reward"`
	AverageReward float64   `json:"average_reward"`
	Confidence    float64   `json:"confidence"` // 95% CI half-width
	LastUpdated   time.Time `json:"last_updated"`
}

type BanditArm struct {
	ID      string    `json:"id"`
	Meta    ArmMeta   `json:"meta"`
	Stats   ArmStats  `json:"stats"`
	Created time.Time `json:"created"`
}

// BanditContext carries caller features for a selection or an outcome.
type BanditContext struct {
	Features   map[string]any `json:"features,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	CampaignID string         `json:"campaign_id,omitempty"`
	Domain     string         `json:"domain,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

type BanditOutcome struct {
	ArmID     string        `json:"arm_id"`
	Reward    float64       `json:"reward"`
	Context   BanditContext `json:"context"`
	Timestamp time.Time     `json:"timestamp"`
}

type BanditDecision struct {
	ArmID             string         `json:"arm_id"`
	EstimatedReward   float64        `json:"estimated_reward"`
	Strategy          BanditStrategy `json:"strategy"`
	Confidence        float64        `json:"confidence"`
	ExplorationFactor float64        `json:"exploration_factor"`
}

type BanditPerformanceSummary struct {
	TotalArms     int        `json:"total_arms"`
	TotalPulls    int        `json:"total_pulls"`
	AverageReward float64    `json:"average_reward"`
	BestArm       *BanditArm `json:"best_arm,omitempty"`
	WorstArm      *BanditArm `json:"worst_arm,omitempty"`
}
