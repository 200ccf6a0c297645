package bandit

import (
	"context"
	"testing"

	"campaignAdvisor/domain"

	"github.com/stretchr/testify/require"
)

func TestGated(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled is a no-op", func(t *testing.T) {
		sel := newTestSelector(t, nil)
		g := NewGated(false, sel)

		require.False(t, g.Enabled())
		require.NoError(t, g.RegisterArm(ctx, "a", domain.ArmMeta{}))
		require.NoError(t, g.RecordOutcome(ctx, "missing", 1, domain.BanditContext{}))

		d, err := g.SelectArm(ctx, domain.BanditContext{})
		require.NoError(t, err)
		require.Equal(t, domain.StrategyDisabled, d.Strategy)
		require.Empty(t, d.ArmID)

		require.Empty(t, g.GetArms())
		require.Empty(t, g.GetRecentOutcomes(10))
		require.Zero(t, g.GetPerformanceSummary().TotalArms)
		_, err = g.GetArm("a")
		require.ErrorIs(t, err, ErrArmNotFound)

		require.Empty(t, sel.GetArms(), "core selector untouched")
	})

	t.Run("disabled reports the default config", func(t *testing.T) {
		g := NewGated(false, newTestSelector(t, nil))

		require.Equal(t, DefaultConfig(), g.Config())
		require.NoError(t, g.Config().Validate())

		reward, err := g.Config().RewardForEvent("lead")
		require.NoError(t, err)
		require.Equal(t, DefaultConfig().RewardLead, reward)

		thompson := domain.StrategyThompson
		cfg, err := g.UpdateConfig(ConfigPatch{Strategy: &thompson})
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), cfg, "patch is not applied while disabled")

		bad := domain.BanditStrategy("softmax")
		_, err = g.UpdateConfig(ConfigPatch{Strategy: &bad})
		require.Error(t, err)
	})

	t.Run("nil selector is treated as disabled", func(t *testing.T) {
		require.False(t, NewGated(true, nil).Enabled())
	})

	t.Run("enabled delegates", func(t *testing.T) {
		g := NewGated(true, newTestSelector(t, nil))

		require.NoError(t, g.RegisterArm(ctx, "a", domain.ArmMeta{Name: "A"}))
		require.ErrorIs(t, g.RegisterArm(ctx, "a", domain.ArmMeta{}), ErrDuplicateArm)
		require.NoError(t, g.RecordOutcome(ctx, "a", 1, domain.BanditContext{}))

		d, err := g.SelectArm(ctx, domain.BanditContext{})
		require.NoError(t, err)
		require.Equal(t, "a", d.ArmID)

		require.Len(t, g.GetArms(), 1)
		require.Equal(t, 1, g.GetPerformanceSummary().TotalPulls)

		g.Clear()
		require.Empty(t, g.GetArms())
	})
}
