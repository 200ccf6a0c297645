package bandit

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"campaignAdvisor/domain"
	"campaignAdvisor/pkg/logger"
	"campaignAdvisor/pkg/tracing"

	"github.com/google/uuid"
)

type Option func(*Selector)

// WithRand injects the random source used by every strategy.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) {
		if r != nil {
			s.sampler = sampler{rng: r}
		}
	}
}

func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

func WithTelemetry(sink TelemetrySink) Option {
	return func(s *Selector) {
		s.sink = sink
	}
}

// Selector keeps a registry of competing arms and picks the next arm to try.
// Every public method holds mu for its read-modify-write section; telemetry
// is emitted after the lock is released.
type Selector struct {
	mu sync.Mutex

	cfg        Config
	arms       map[string]*armState
	order      []string
	outcomes   []domain.BanditOutcome
	totalPulls int

	sampler sampler
	now     func() time.Time
	sink    TelemetrySink
}

func NewSelector(cfg Config, opts ...Option) (*Selector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Selector{
		cfg:     cfg,
		arms:    make(map[string]*armState),
		sampler: sampler{rng: rand.New(rand.NewSource(time.Now().UnixNano()))},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Selector) RegisterArm(ctx context.Context, id string, meta domain.ArmMeta) error {
	if id == "" {
		return ErrInvalidArmID
	}

	s.mu.Lock()
	if _, ok := s.arms[id]; ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateArm, id)
	}

	now := s.now()
	s.arms[id] = &armState{arm: domain.BanditArm{
		ID:      id,
		Meta:    meta,
		Stats:   domain.ArmStats{LastUpdated: now},
		Created: now,
	}}
	s.order = append(s.order, id)
	count := len(s.order)
	s.mu.Unlock()

	logger.Debug("bandit_arm_registered",
		"trace_id", tracing.TraceIDFromContext(ctx),
		"arm_id", id,
		"arm_count", count,
	)

	return nil
}

func (s *Selector) RecordOutcome(ctx context.Context, armID string, reward float64, bctx domain.BanditContext) error {
	if math.IsNaN(reward) || math.IsInf(reward, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidReward, reward)
	}

	s.mu.Lock()
	st, ok := s.arms[armID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrArmNotFound, armID)
	}
	if !st.accepts(reward) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %v overflows stats of arm %s", ErrInvalidReward, reward, armID)
	}

	now := s.now()
	bctx = stampContext(bctx, now)

	s.appendOutcome(domain.BanditOutcome{
		ArmID:     armID,
		Reward:    reward,
		Context:   bctx,
		Timestamp: now,
	})
	st.observe(reward, now)
	s.totalPulls++

	stats := st.arm.Stats
	s.mu.Unlock()

	BanditOutcomesTotal.WithLabelValues(armID).Inc()
	BanditRewardObserved.Observe(reward)

	tid := tracing.TraceIDFromContext(ctx)
	logger.Debug("bandit_outcome",
		"trace_id", tid,
		"arm_id", armID,
		"reward", reward,
		"pulls", stats.Pulls,
		"average_reward", stats.AverageReward,
		"confidence", stats.Confidence,
	)

	s.emit(ctx, domain.BanditTelemetryEvent{
		ID:        uuid.New(),
		Kind:      domain.TelemetryOutcome,
		ArmID:     armID,
		Reward:    reward,
		TraceID:   tid,
		Context:   contextMap(bctx),
		CreatedAt: now,
	})

	return nil
}

func (s *Selector) SelectArm(ctx context.Context, bctx domain.BanditContext) (domain.BanditDecision, error) {
	s.mu.Lock()
	if len(s.order) == 0 {
		s.mu.Unlock()
		return domain.BanditDecision{}, ErrNoArms
	}

	decision := s.decide()
	totalPulls := s.totalPulls
	now := s.now()
	s.mu.Unlock()

	BanditDecisionsTotal.WithLabelValues(string(decision.Strategy)).Inc()

	tid := tracing.TraceIDFromContext(ctx)
	logger.Debug("bandit_select",
		"trace_id", tid,
		"arm_id", decision.ArmID,
		"strategy", decision.Strategy,
		"estimated_reward", decision.EstimatedReward,
		"total_pulls", totalPulls,
	)

	s.emit(ctx, domain.BanditTelemetryEvent{
		ID:              uuid.New(),
		Kind:            domain.TelemetryDecision,
		ArmID:           decision.ArmID,
		Strategy:        decision.Strategy,
		EstimatedReward: decision.EstimatedReward,
		TraceID:         tid,
		Context:         contextMap(stampContext(bctx, now)),
		CreatedAt:       now,
	})

	return decision, nil
}

// decide must be called with mu held and at least one arm registered.
func (s *Selector) decide() domain.BanditDecision {
	n := len(s.order)

	if s.totalPulls < s.cfg.MinSampleSize*n {
		return domain.BanditDecision{
			ArmID:             s.order[s.totalPulls%n],
			EstimatedReward:   0.5,
			Strategy:          domain.StrategyDeterministicCycle,
			Confidence:        0,
			ExplorationFactor: s.cfg.ExplorationFactor,
		}
	}

	switch s.activeStrategy() {
	case domain.StrategyThompson:
		return s.selectThompson()
	case domain.StrategyEpsilonGreedy:
		return s.selectEpsilonGreedy()
	case domain.StrategyUCB:
		fallthrough
	default:
		return s.selectUCB()
	}
}

func (s *Selector) activeStrategy() domain.BanditStrategy {
	if s.cfg.Strategy != domain.StrategyHybrid {
		return s.cfg.Strategy
	}
	if s.totalPulls < s.cfg.HybridSwitchPulls {
		return domain.StrategyUCB
	}
	return domain.StrategyThompson
}

func (s *Selector) GetArms() []domain.BanditArm {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.BanditArm, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.arms[id].arm)
	}
	return out
}

func (s *Selector) GetArm(id string) (domain.BanditArm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.arms[id]
	if !ok {
		return domain.BanditArm{}, fmt.Errorf("%w: %s", ErrArmNotFound, id)
	}
	return st.arm, nil
}

// GetRecentOutcomes returns up to limit outcomes, oldest first. limit <= 0 returns the whole history.
func (s *Selector) GetRecentOutcomes(limit int) []domain.BanditOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if limit > 0 && limit < len(s.outcomes) {
		start = len(s.outcomes) - limit
	}

	out := make([]domain.BanditOutcome, len(s.outcomes)-start)
	copy(out, s.outcomes[start:])
	return out
}

// GetPerformanceSummary ranks arms that have at least one pull by average reward.
func (s *Selector) GetPerformanceSummary() domain.BanditPerformanceSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := domain.BanditPerformanceSummary{
		TotalArms:  len(s.order),
		TotalPulls: s.totalPulls,
	}

	var totalReward float64
	for _, id := range s.order {
		arm := s.arms[id].arm
		if arm.Stats.Pulls == 0 {
			continue
		}
		totalReward += arm.Stats.TotalReward

		if summary.BestArm == nil || arm.Stats.AverageReward > summary.BestArm.Stats.AverageReward {
			best := arm
			summary.BestArm = &best
		}
		if summary.WorstArm == nil || arm.Stats.AverageReward < summary.WorstArm.Stats.AverageReward {
			worst := arm
			summary.WorstArm = &worst
		}
	}

	if s.totalPulls > 0 {
		summary.AverageReward = totalReward / float64(s.totalPulls)
	}

	return summary
}

func (s *Selector) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.arms = make(map[string]*armState)
	s.order = nil
	s.outcomes = nil
	s.totalPulls = 0
}

func (s *Selector) UpdateConfig(patch ConfigPatch) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.cfg.Apply(patch)
	if err != nil {
		return s.cfg, err
	}
	s.cfg = cfg
	s.trimOutcomes()

	return cfg, nil
}

func (s *Selector) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}
