package postgres

import (
	"context"
	"fmt"

	"campaignAdvisor/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TelemetryRepository stores bandit decision and outcome events for audit.
// The arm registry itself stays in memory.
type TelemetryRepository struct {
	DB *gorm.DB
}

func NewTelemetryRepository(db *gorm.DB) *TelemetryRepository {
	return &TelemetryRepository{DB: db}
}

func (r *TelemetryRepository) Migrate() error {
	if err := r.DB.AutoMigrate(&domain.BanditTelemetryEvent{}); err != nil {
		return fmt.Errorf("failed to migrate bandit_telemetry_events: %w", err)
	}
	return nil
}

// Emit satisfies bandit.TelemetrySink.
func (r *TelemetryRepository) Emit(ctx context.Context, event domain.BanditTelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save bandit telemetry event: %w", err)
	}

	return nil
}
