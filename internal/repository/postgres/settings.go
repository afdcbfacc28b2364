package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felicare/ckd-api/internal/model"
)

func (r *settingsRepository) Get(ctx context.Context, caregiverID uuid.UUID) (*model.NotificationSettings, error) {
	query := `
		SELECT caregiver_id, enabled, followups_enabled, snooze_enabled,
			   end_of_day_summary, end_of_day_time, weekly_summary, updated_at
		FROM notification_settings
		WHERE caregiver_id = $1
	`
	var settings model.NotificationSettings
	err := r.db.GetContext(ctx, &settings, query, caregiverID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings *model.NotificationSettings) error {
	query := `
		INSERT INTO notification_settings (
			caregiver_id, enabled, followups_enabled, snooze_enabled,
			end_of_day_summary, end_of_day_time, weekly_summary, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (caregiver_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			followups_enabled = EXCLUDED.followups_enabled,
			snooze_enabled = EXCLUDED.snooze_enabled,
			end_of_day_summary = EXCLUDED.end_of_day_summary,
			end_of_day_time = EXCLUDED.end_of_day_time,
			weekly_summary = EXCLUDED.weekly_summary,
			updated_at = EXCLUDED.updated_at
	`
	settings.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		settings.CaregiverID,
		settings.Enabled,
		settings.FollowupsEnabled,
		settings.SnoozeEnabled,
		settings.EndOfDaySummary,
		settings.EndOfDayTime,
		settings.WeeklySummary,
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert notification settings: %w", err)
	}
	return nil
}
