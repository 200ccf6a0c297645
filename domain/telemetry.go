package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TelemetryKind string

const (
	TelemetryDecision TelemetryKind = "decision"
	TelemetryOutcome  TelemetryKind = "outcome"
)

// BanditTelemetryEvent is emitted once per decision and once per recorded reward.
type BanditTelemetryEvent struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Kind            TelemetryKind     `gorm:"column:kind;not null" json:"kind"`
	ArmID           string            `gorm:"column:arm_id;not null;index" json:"arm_id"`
	Strategy        BanditStrategy    `gorm:"column:strategy" json:"strategy,omitempty"`
	EstimatedReward float64           `gorm:"column:estimated_reward" json:"estimated_reward,omitempty"`
	Reward          float64           `gorm:"column:reward" json:"reward,omitempty"`
	TraceID         string            `gorm:"column:trace_id" json:"trace_id,omitempty"`
	Context         datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (BanditTelemetryEvent) TableName() string {
	return "bandit_telemetry_events"
}
