package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"campaignAdvisor/domain"

	"github.com/redis/go-redis/v9"
)

const DefaultTelemetryChannel = "bandit:telemetry"

// Publisher is the subset of *redis.Client the publisher needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// TelemetryPublisher broadcasts bandit events on a pub/sub channel.
type TelemetryPublisher struct {
	client  Publisher
	channel string
}

func NewTelemetryPublisher(client Publisher, channel string) *TelemetryPublisher {
	if channel == "" {
		channel = DefaultTelemetryChannel
	}
	return &TelemetryPublisher{
		client:  client,
		channel: channel,
	}
}

func (p *TelemetryPublisher) Emit(ctx context.Context, event domain.BanditTelemetryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish telemetry event: %w", err)
	}

	return nil
}
