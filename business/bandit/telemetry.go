package bandit

import (
	"context"
	"errors"
	"fmt"

	"campaignAdvisor/domain"
	"campaignAdvisor/pkg/logger"
)

// TelemetrySink receives decision and outcome events. Delivery is best-effort:
// returned errors and panics are logged and never reach the selector's caller.
type TelemetrySink interface {
	Emit(ctx context.Context, event domain.BanditTelemetryEvent) error
}

// SinkFunc adapts a function to TelemetrySink.
type SinkFunc func(ctx context.Context, event domain.BanditTelemetryEvent) error

func (f SinkFunc) Emit(ctx context.Context, event domain.BanditTelemetryEvent) error {
	return f(ctx, event)
}

// MultiSink fans an event out to every sink and joins their errors.
type MultiSink []TelemetrySink

func (m MultiSink) Emit(ctx context.Context, event domain.BanditTelemetryEvent) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink writes events to the process logger.
type LogSink struct{}

func (LogSink) Emit(_ context.Context, event domain.BanditTelemetryEvent) error {
	switch event.Kind {
	case domain.TelemetryDecision:
		logger.Info("bandit_decision_made",
			"trace_id", event.TraceID,
			"arm_id", event.ArmID,
			"estimated_reward", event.EstimatedReward,
			"strategy", event.Strategy,
		)
	case domain.TelemetryOutcome:
		logger.Info("bandit_reward_recorded",
			"trace_id", event.TraceID,
			"arm_id", event.ArmID,
			"reward", event.Reward,
		)
	default:
		return fmt.Errorf("unknown telemetry kind: %s", event.Kind)
	}
	return nil
}

func (s *Selector) emit(ctx context.Context, event domain.BanditTelemetryEvent) {
	if s.sink == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			BanditTelemetryFailuresTotal.Inc()
			logger.Warn("bandit telemetry sink panicked",
				"trace_id", event.TraceID,
				"kind", event.Kind,
				"panic", r,
			)
		}
	}()

	if err := s.sink.Emit(ctx, event); err != nil {
		BanditTelemetryFailuresTotal.Inc()
		logger.Warn("bandit telemetry sink failed",
			"trace_id", event.TraceID,
			"kind", event.Kind,
			"error", err,
		)
	}
}
