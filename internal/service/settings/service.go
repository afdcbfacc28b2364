package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felicare/ckd-api/internal/model"
	"github.com/felicare/ckd-api/internal/repository"
	apperrors "github.com/felicare/ckd-api/pkg/errors"
	"github.com/felicare/ckd-api/pkg/timeutil"
)

type Service struct {
	repo repository.SettingsRepository
}

func NewService(repo repository.SettingsRepository) *Service {
	return &Service{repo: repo}
}

// Get returns the caregiver's notification settings, falling back to
// the defaults when none have been saved yet.
func (s *Service) Get(ctx context.Context, caregiverID uuid.UUID) (model.NotificationSettings, error) {
	stored, err := s.repo.Get(ctx, caregiverID)
	if err != nil {
		return model.NotificationSettings{}, fmt.Errorf("failed to get notification settings: %w", err)
	}
	if stored == nil {
		return model.DefaultNotificationSettings(caregiverID), nil
	}
	return *stored, nil
}

func (s *Service) Update(ctx context.Context, caregiverID uuid.UUID, req *model.UpdateNotificationSettingsRequest) (model.NotificationSettings, error) {
	settings, err := s.Get(ctx, caregiverID)
	if err != nil {
		return model.NotificationSettings{}, err
	}

	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.FollowupsEnabled != nil {
		settings.FollowupsEnabled = *req.FollowupsEnabled
	}
	if req.SnoozeEnabled != nil {
		settings.SnoozeEnabled = *req.SnoozeEnabled
	}
	if req.EndOfDaySummary != nil {
		settings.EndOfDaySummary = *req.EndOfDaySummary
	}
	if req.EndOfDayTime != nil {
		if !timeutil.IsValidTimeString(*req.EndOfDayTime) {
			return model.NotificationSettings{}, apperrors.Validation("end_of_day_time", fmt.Sprintf("%q is not a valid HH:mm time", *req.EndOfDayTime))
		}
		settings.EndOfDayTime = *req.EndOfDayTime
	}
	if req.WeeklySummary != nil {
		settings.WeeklySummary = *req.WeeklySummary
	}
	settings.UpdatedAt = time.Now().UTC()

	if err := s.repo.Upsert(ctx, &settings); err != nil {
		return model.NotificationSettings{}, fmt.Errorf("failed to save notification settings: %w", err)
	}
	return settings, nil
}
