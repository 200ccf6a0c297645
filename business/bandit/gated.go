package bandit

import (
	"context"

	"campaignAdvisor/domain"
)

// Gated switches the selector on or off once, at construction. When disabled
// every operation is a no-op returning neutral defaults.
type Gated struct {
	enabled  bool
	selector *Selector
}

func NewGated(enabled bool, selector *Selector) *Gated {
	return &Gated{
		enabled:  enabled && selector != nil,
		selector: selector,
	}
}

func (g *Gated) Enabled() bool {
	return g.enabled
}

func (g *Gated) RegisterArm(ctx context.Context, id string, meta domain.ArmMeta) error {
	if !g.enabled {
		return nil
	}
	return g.selector.RegisterArm(ctx, id, meta)
}

func (g *Gated) RecordOutcome(ctx context.Context, armID string, reward float64, bctx domain.BanditContext) error {
	if !g.enabled {
		return nil
	}
	return g.selector.RecordOutcome(ctx, armID, reward, bctx)
}

func (g *Gated) SelectArm(ctx context.Context, bctx domain.BanditContext) (domain.BanditDecision, error) {
	if !g.enabled {
		return domain.BanditDecision{Strategy: domain.StrategyDisabled}, nil
	}
	return g.selector.SelectArm(ctx, bctx)
}

func (g *Gated) GetArms() []domain.BanditArm {
	if !g.enabled {
		return []domain.BanditArm{}
	}
	return g.selector.GetArms()
}

func (g *Gated) GetArm(id string) (domain.BanditArm, error) {
	if !g.enabled {
		return domain.BanditArm{}, ErrArmNotFound
	}
	return g.selector.GetArm(id)
}

func (g *Gated) GetRecentOutcomes(limit int) []domain.BanditOutcome {
	if !g.enabled {
		return []domain.BanditOutcome{}
	}
	return g.selector.GetRecentOutcomes(limit)
}

func (g *Gated) GetPerformanceSummary() domain.BanditPerformanceSummary {
	if !g.enabled {
		return domain.BanditPerformanceSummary{}
	}
	return g.selector.GetPerformanceSummary()
}

func (g *Gated) Clear() {
	if g.enabled {
		g.selector.Clear()
	}
}

// UpdateConfig still validates the patch when disabled but never applies it.
func (g *Gated) UpdateConfig(patch ConfigPatch) (Config, error) {
	if !g.enabled {
		cfg := DefaultConfig()
		if _, err := cfg.Apply(patch); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	return g.selector.UpdateConfig(patch)
}

// Config reports the defaults when disabled so reward lookups keep working.
func (g *Gated) Config() Config {
	if !g.enabled {
		return DefaultConfig()
	}
	return g.selector.Config()
}
