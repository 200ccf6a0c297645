package bandit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"campaignAdvisor/domain"
	"campaignAdvisor/pkg/tracing"

	"github.com/stretchr/testify/require"
)

func newTestSelector(t *testing.T, mutate func(*Config), opts ...Option) *Selector {
	t.Helper()

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	s, err := NewSelector(cfg, append([]Option{WithSeed(42)}, opts...)...)
	require.NoError(t, err)

	return s
}

func registerArms(t *testing.T, s *Selector, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, s.RegisterArm(context.Background(), id, domain.ArmMeta{Name: "variant " + id}))
	}
}

func record(t *testing.T, s *Selector, armID string, rewards ...float64) {
	t.Helper()
	for _, r := range rewards {
		require.NoError(t, s.RecordOutcome(context.Background(), armID, r, domain.BanditContext{}))
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSelectorRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate arm is rejected", func(t *testing.T) {
		s := newTestSelector(t, nil)

		require.NoError(t, s.RegisterArm(ctx, "a", domain.ArmMeta{Name: "A"}))
		err := s.RegisterArm(ctx, "a", domain.ArmMeta{Name: "A again"})
		require.ErrorIs(t, err, ErrDuplicateArm)

		arms := s.GetArms()
		require.Len(t, arms, 1)
		require.Equal(t, "a", arms[0].ID)
		require.Equal(t, "A", arms[0].Meta.Name, "registry should be unchanged")
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		s := newTestSelector(t, nil)
		require.ErrorIs(t, s.RegisterArm(ctx, "", domain.ArmMeta{}), ErrInvalidArmID)
		require.Empty(t, s.GetArms())
	})

	t.Run("outcome for unknown arm", func(t *testing.T) {
		s := newTestSelector(t, nil)
		err := s.RecordOutcome(ctx, "ghost", 1, domain.BanditContext{})
		require.ErrorIs(t, err, ErrArmNotFound)
		require.Equal(t, 0, s.GetPerformanceSummary().TotalPulls)
	})

	t.Run("non finite reward", func(t *testing.T) {
		s := newTestSelector(t, nil)
		registerArms(t, s, "a")
		require.ErrorIs(t, s.RecordOutcome(ctx, "a", math.NaN(), domain.BanditContext{}), ErrInvalidReward)
		require.ErrorIs(t, s.RecordOutcome(ctx, "a", math.Inf(1), domain.BanditContext{}), ErrInvalidReward)
	})

	t.Run("reward overflowing the running total", func(t *testing.T) {
		s := newTestSelector(t, nil)
		registerArms(t, s, "a")

		require.NoError(t, s.RecordOutcome(ctx, "a", 1e308, domain.BanditContext{}))
		err := s.RecordOutcome(ctx, "a", 1e308, domain.BanditContext{})
		require.ErrorIs(t, err, ErrInvalidReward)

		arm, err := s.GetArm("a")
		require.NoError(t, err)
		require.Equal(t, 1, arm.Stats.Pulls, "registry should be unchanged")
		require.Equal(t, 1e308, arm.Stats.TotalReward)
		require.False(t, math.IsInf(arm.Stats.AverageReward, 0))
		require.Len(t, s.GetRecentOutcomes(0), 1)

		d, err := s.SelectArm(ctx, domain.BanditContext{})
		require.NoError(t, err)
		require.False(t, math.IsInf(d.EstimatedReward, 0))
	})

	t.Run("reward overflowing the variance", func(t *testing.T) {
		s := newTestSelector(t, nil)
		registerArms(t, s, "a")

		require.NoError(t, s.RecordOutcome(ctx, "a", 0, domain.BanditContext{}))
		require.ErrorIs(t, s.RecordOutcome(ctx, "a", 1e200, domain.BanditContext{}), ErrInvalidReward)

		arm, err := s.GetArm("a")
		require.NoError(t, err)
		require.Equal(t, 1, arm.Stats.Pulls)
		require.Zero(t, arm.Stats.Confidence)
	})

	t.Run("get unknown arm", func(t *testing.T) {
		s := newTestSelector(t, nil)
		_, err := s.GetArm("nope")
		require.ErrorIs(t, err, ErrArmNotFound)
	})

	t.Run("select with empty registry", func(t *testing.T) {
		s := newTestSelector(t, nil)
		_, err := s.SelectArm(ctx, domain.BanditContext{})
		require.ErrorIs(t, err, ErrNoArms)
	})

	t.Run("arms keep registration order and clock", func(t *testing.T) {
		fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		s := newTestSelector(t, nil, WithClock(func() time.Time { return fixed }))
		registerArms(t, s, "c", "a", "b")

		arms := s.GetArms()
		require.Equal(t, []string{"c", "a", "b"}, []string{arms[0].ID, arms[1].ID, arms[2].ID})
		require.Equal(t, fixed, arms[0].Created)
	})
}

func TestSelectorColdStartCycle(t *testing.T) {
	ctx := context.Background()
	s := newTestSelector(t, func(c *Config) { c.MinSampleSize = 10 })
	registerArms(t, s, "arm0", "arm1")

	for i := 0; i < 20; i++ {
		decision, err := s.SelectArm(ctx, domain.BanditContext{})
		require.NoError(t, err)
		require.Equal(t, domain.StrategyDeterministicCycle, decision.Strategy)
		require.Equal(t, fmt.Sprintf("arm%d", i%2), decision.ArmID, "call %d", i)
		require.Equal(t, 0.5, decision.EstimatedReward)
		require.Zero(t, decision.Confidence)

		record(t, s, decision.ArmID, 0.5)
	}

	decision, err := s.SelectArm(ctx, domain.BanditContext{})
	require.NoError(t, err)
	require.Equal(t, domain.StrategyUCB, decision.Strategy, "hybrid starts with UCB once warmed up")
}

func TestSelectorPerformanceSummary(t *testing.T) {
	s := newTestSelector(t, nil)
	registerArms(t, s, "a", "b")

	rng := rand.New(rand.NewSource(7))
	var sumA, sumB float64
	for i := 0; i < 15; i++ {
		ra := 0.5 + 0.5*rng.Float64()
		rb := 0.5 * rng.Float64()
		sumA += ra
		sumB += rb
		record(t, s, "a", ra)
		record(t, s, "b", rb)
	}

	summary := s.GetPerformanceSummary()
	require.Equal(t, 30, summary.TotalPulls)
	require.Equal(t, 2, summary.TotalArms)
	require.NotNil(t, summary.BestArm)
	require.NotNil(t, summary.WorstArm)
	require.Equal(t, "a", summary.BestArm.ID)
	require.Equal(t, "b", summary.WorstArm.ID)
	require.InDelta(t, sumA/15, summary.BestArm.Stats.AverageReward, 1e-12)
	require.InDelta(t, sumB/15, summary.WorstArm.Stats.AverageReward, 1e-12)
	require.InDelta(t, (sumA+sumB)/30, summary.AverageReward, 1e-12)
}

func TestSelectorSummaryWithoutPulls(t *testing.T) {
	s := newTestSelector(t, nil)
	registerArms(t, s, "a")

	summary := s.GetPerformanceSummary()
	require.Nil(t, summary.BestArm)
	require.Nil(t, summary.WorstArm)
	require.Zero(t, summary.AverageReward)
}

func TestSelectorStatsInvariants(t *testing.T) {
	s := newTestSelector(t, nil)
	registerArms(t, s, "a", "b", "c")

	rng := rand.New(rand.NewSource(11))
	ids := []string{"a", "b", "c"}
	for i := 0; i < 500; i++ {
		record(t, s, ids[rng.Intn(len(ids))], rng.Float64())
	}

	pulls := 0
	for _, arm := range s.GetArms() {
		require.Equal(t, arm.Stats.TotalReward/float64(arm.Stats.Pulls), arm.Stats.AverageReward)
		pulls += arm.Stats.Pulls
	}
	require.Equal(t, s.GetPerformanceSummary().TotalPulls, pulls)
}

func TestSelectorConfidence(t *testing.T) {
	s := newTestSelector(t, nil)
	registerArms(t, s, "a")

	record(t, s, "a", 1)
	arm, err := s.GetArm("a")
	require.NoError(t, err)
	require.Zero(t, arm.Stats.Confidence, "one pull has no interval")

	record(t, s, "a", 0)
	arm, err = s.GetArm("a")
	require.NoError(t, err)
	// var = 0.5, se = sqrt(0.5/2) = 0.5
	require.InDelta(t, 0.98, arm.Stats.Confidence, 1e-9)
}

func TestSelectorSnapshots(t *testing.T) {
	s := newTestSelector(t, nil)
	registerArms(t, s, "a", "b")
	record(t, s, "a", 0.3, 0.7)

	first := s.GetArms()
	second := s.GetArms()
	require.Equal(t, first, second)

	first[0].Stats.Pulls = 99
	arm, err := s.GetArm("a")
	require.NoError(t, err)
	require.Equal(t, 2, arm.Stats.Pulls, "snapshots must not alias the registry")
}

func TestSelectorClear(t *testing.T) {
	s := newTestSelector(t, nil)
	registerArms(t, s, "a", "b")
	record(t, s, "a", 1, 0)

	s.Clear()

	require.Empty(t, s.GetArms())
	require.Empty(t, s.GetRecentOutcomes(0))
	require.Equal(t, 0, s.GetPerformanceSummary().TotalPulls)

	require.NoError(t, s.RegisterArm(context.Background(), "a", domain.ArmMeta{}), "ids are free again")
}

func TestSelectorOutcomeHistory(t *testing.T) {
	s := newTestSelector(t, nil)
	registerArms(t, s, "a")

	for i := 0; i < 1005; i++ {
		record(t, s, "a", float64(i))
	}

	all := s.GetRecentOutcomes(0)
	require.Len(t, all, 1000)
	require.Equal(t, 5.0, all[0].Reward, "oldest five evicted")
	require.Equal(t, 1004.0, all[len(all)-1].Reward)

	recent := s.GetRecentOutcomes(3)
	require.Equal(t, []float64{1002, 1003, 1004}, []float64{recent[0].Reward, recent[1].Reward, recent[2].Reward})

	arm, err := s.GetArm("a")
	require.NoError(t, err)
	require.Equal(t, 1005, arm.Stats.Pulls, "eviction never rewrites stats")

	_, err = s.UpdateConfig(ConfigPatch{MaxOutcomes: intPtr(10)})
	require.NoError(t, err)
	require.Len(t, s.GetRecentOutcomes(0), 10)
}

func TestSelectorOutcomeContext(t *testing.T) {
	s := newTestSelector(t, nil)
	registerArms(t, s, "a")

	at := time.Date(2026, 5, 4, 14, 0, 0, 0, time.UTC) // Monday afternoon
	err := s.RecordOutcome(context.Background(), "a", 1, domain.BanditContext{
		Features:   map[string]any{"tld": "com"},
		CampaignID: "c-1",
		Timestamp:  at,
	})
	require.NoError(t, err)

	out := s.GetRecentOutcomes(1)[0]
	require.Equal(t, "c-1", out.Context.CampaignID)
	require.Equal(t, at, out.Context.Timestamp)
	require.Equal(t, "com", out.Context.Features["tld"])
	require.Equal(t, "afternoon", out.Context.Features["time_bucket"])
	require.Equal(t, 1, out.Context.Features["dow"])
}

func TestSelectorStrategies(t *testing.T) {
	ctx := context.Background()

	t.Run("ucb takes an unpulled arm first", func(t *testing.T) {
		s := newTestSelector(t, func(c *Config) {
			c.Strategy = "ucb"
			c.MinSampleSize = 0
		})
		registerArms(t, s, "a", "b")
		record(t, s, "a", 1)

		d, err := s.SelectArm(ctx, domain.BanditContext{})
		require.NoError(t, err)
		require.Equal(t, "b", d.ArmID)
		require.Equal(t, domain.StrategyUCB, d.Strategy)
	})

	t.Run("ucb prefers the higher mean at equal pulls", func(t *testing.T) {
		s := newTestSelector(t, func(c *Config) {
			c.Strategy = "ucb"
			c.MinSampleSize = 0
		})
		registerArms(t, s, "a", "b")
		record(t, s, "a", repeat(0.1, 10)...)
		record(t, s, "b", repeat(0.9, 10)...)

		d, err := s.SelectArm(ctx, domain.BanditContext{})
		require.NoError(t, err)
		require.Equal(t, "b", d.ArmID)
		require.InDelta(t, 0.9, d.EstimatedReward, 1e-9)
	})

	t.Run("epsilon greedy exploits with zero exploration", func(t *testing.T) {
		s := newTestSelector(t, func(c *Config) {
			c.Strategy = "epsilon_greedy"
			c.MinSampleSize = 0
			c.ExplorationFactor = 0
		})
		registerArms(t, s, "a", "b")
		record(t, s, "a", repeat(0.2, 5)...)
		record(t, s, "b", repeat(0.8, 5)...)

		for i := 0; i < 20; i++ {
			d, err := s.SelectArm(ctx, domain.BanditContext{})
			require.NoError(t, err)
			require.Equal(t, "b", d.ArmID)
			require.Equal(t, domain.StrategyEpsilonGreedy, d.Strategy)
			require.Zero(t, d.ExplorationFactor)
		}
	})

	t.Run("epsilon decays with pulls", func(t *testing.T) {
		s := newTestSelector(t, func(c *Config) {
			c.Strategy = "epsilon_greedy"
			c.MinSampleSize = 0
			c.EpsilonDecay = 0.5
		})
		registerArms(t, s, "a")
		record(t, s, "a", 1, 1, 1)

		d, err := s.SelectArm(ctx, domain.BanditContext{})
		require.NoError(t, err)
		require.InDelta(t, 0.125, d.ExplorationFactor, 1e-12)
	})

	t.Run("thompson favours a clearly better arm", func(t *testing.T) {
		s := newTestSelector(t, func(c *Config) {
			c.Strategy = "thompson"
			c.MinSampleSize = 0
		})
		registerArms(t, s, "good", "bad")
		record(t, s, "good", repeat(1, 100)...)
		record(t, s, "bad", repeat(0, 100)...)

		for i := 0; i < 50; i++ {
			d, err := s.SelectArm(ctx, domain.BanditContext{})
			require.NoError(t, err)
			require.Equal(t, "good", d.ArmID)
			require.Equal(t, domain.StrategyThompson, d.Strategy)
			require.Greater(t, d.EstimatedReward, 0.0)
			require.Less(t, d.EstimatedReward, 1.0+1e-12)
		}
	})

	t.Run("hybrid switches to thompson", func(t *testing.T) {
		s := newTestSelector(t, nil)
		registerArms(t, s, "a", "b")
		record(t, s, "a", repeat(0.6, 50)...)
		record(t, s, "b", repeat(0.4, 49)...)

		d, err := s.SelectArm(ctx, domain.BanditContext{})
		require.NoError(t, err)
		require.Equal(t, domain.StrategyUCB, d.Strategy)

		record(t, s, "b", 0.4)
		d, err = s.SelectArm(ctx, domain.BanditContext{})
		require.NoError(t, err)
		require.Equal(t, domain.StrategyThompson, d.Strategy)
	})

	t.Run("seeded selectors agree", func(t *testing.T) {
		run := func() []string {
			s := newTestSelector(t, func(c *Config) {
				c.Strategy = "thompson"
				c.MinSampleSize = 0
			})
			registerArms(t, s, "a", "b", "c")
			record(t, s, "a", 0.5, 0.4)
			record(t, s, "b", 0.6, 0.3)
			record(t, s, "c", 0.2)

			var picks []string
			for i := 0; i < 30; i++ {
				d, err := s.SelectArm(ctx, domain.BanditContext{})
				require.NoError(t, err)
				picks = append(picks, d.ArmID)
			}
			return picks
		}

		require.Equal(t, run(), run())
	})
}

func TestSelectorUpdateConfig(t *testing.T) {
	s := newTestSelector(t, nil)

	bad := domain.BanditStrategy("softmax")
	_, err := s.UpdateConfig(ConfigPatch{Strategy: &bad})
	require.ErrorIs(t, err, ErrInvalidStrategy)
	require.Equal(t, domain.StrategyHybrid, s.Config().Strategy, "rejected patch leaves config untouched")

	ucb := domain.StrategyUCB
	cfg, err := s.UpdateConfig(ConfigPatch{Strategy: &ucb, ExplorationFactor: floatPtr(2)})
	require.NoError(t, err)
	require.Equal(t, domain.StrategyUCB, cfg.Strategy)
	require.Equal(t, 2.0, s.Config().ExplorationFactor)
	require.Equal(t, defaultMinSampleSize, s.Config().MinSampleSize)
}

func TestSelectorTelemetry(t *testing.T) {
	ctx := tracing.WithTraceID(context.Background(), "trace-1")

	t.Run("decision and outcome events", func(t *testing.T) {
		var events []domain.BanditTelemetryEvent
		sink := SinkFunc(func(_ context.Context, ev domain.BanditTelemetryEvent) error {
			events = append(events, ev)
			return nil
		})

		s := newTestSelector(t, nil, WithTelemetry(sink))
		registerArms(t, s, "a")

		d, err := s.SelectArm(ctx, domain.BanditContext{UserID: "u-1"})
		require.NoError(t, err)
		require.NoError(t, s.RecordOutcome(ctx, d.ArmID, 0.75, domain.BanditContext{}))

		require.Len(t, events, 2)

		require.Equal(t, domain.TelemetryDecision, events[0].Kind)
		require.Equal(t, "a", events[0].ArmID)
		require.Equal(t, d.Strategy, events[0].Strategy)
		require.Equal(t, d.EstimatedReward, events[0].EstimatedReward)
		require.Equal(t, "trace-1", events[0].TraceID)
		require.Equal(t, "u-1", events[0].Context["user_id"])

		require.Equal(t, domain.TelemetryOutcome, events[1].Kind)
		require.Equal(t, 0.75, events[1].Reward)
		require.NotEqual(t, events[0].ID, events[1].ID)
	})

	t.Run("failing sink never fails the call", func(t *testing.T) {
		sink := SinkFunc(func(context.Context, domain.BanditTelemetryEvent) error {
			return errors.New("sink down")
		})
		s := newTestSelector(t, nil, WithTelemetry(sink))
		registerArms(t, s, "a")

		_, err := s.SelectArm(ctx, domain.BanditContext{})
		require.NoError(t, err)
		require.NoError(t, s.RecordOutcome(ctx, "a", 1, domain.BanditContext{}))
	})

	t.Run("panicking sink never fails the call", func(t *testing.T) {
		sink := SinkFunc(func(context.Context, domain.BanditTelemetryEvent) error {
			panic("boom")
		})
		s := newTestSelector(t, nil, WithTelemetry(sink))
		registerArms(t, s, "a")

		d, err := s.SelectArm(ctx, domain.BanditContext{})
		require.NoError(t, err)
		require.Equal(t, "a", d.ArmID)
		require.NoError(t, s.RecordOutcome(ctx, "a", 1, domain.BanditContext{}))
	})

	t.Run("multi sink joins errors", func(t *testing.T) {
		calls := 0
		ok := SinkFunc(func(context.Context, domain.BanditTelemetryEvent) error { calls++; return nil })
		bad := SinkFunc(func(context.Context, domain.BanditTelemetryEvent) error { calls++; return errors.New("x") })

		err := MultiSink{ok, nil, bad}.Emit(ctx, domain.BanditTelemetryEvent{Kind: domain.TelemetryOutcome})
		require.Error(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("log sink", func(t *testing.T) {
		require.NoError(t, LogSink{}.Emit(ctx, domain.BanditTelemetryEvent{Kind: domain.TelemetryDecision}))
		require.Error(t, LogSink{}.Emit(ctx, domain.BanditTelemetryEvent{Kind: "other"}))
	})
}

func TestSelectorConcurrentOutcomes(t *testing.T) {
	s := newTestSelector(t, nil)
	registerArms(t, s, "a", "b")

	const workers, perWorker = 8, 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			arm := "a"
			if w%2 == 1 {
				arm = "b"
			}
			for i := 0; i < perWorker; i++ {
				_ = s.RecordOutcome(context.Background(), arm, 0.5, domain.BanditContext{})
				_, _ = s.SelectArm(context.Background(), domain.BanditContext{})
			}
		}(w)
	}
	wg.Wait()

	summary := s.GetPerformanceSummary()
	require.Equal(t, workers*perWorker, summary.TotalPulls)

	pulls := 0
	for _, arm := range s.GetArms() {
		pulls += arm.Stats.Pulls
		require.Equal(t, workers/2*perWorker, arm.Stats.Pulls)
	}
	require.Equal(t, summary.TotalPulls, pulls)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
