package treatment

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
	repo repository.TreatmentRepository
}

func NewService(repo repository.TreatmentRepository) *Service {
	return &Service{repo: repo}
}

// Log records a completed treatment. GivenAt defaults to now when the
// request leaves it empty.
func (s *Service) Log(ctx context.Context, petID uuid.UUID, req *model.CreateTreatmentLogRequest) (*model.TreatmentLog, error) {
	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid schedule_id", err)
	}
	if req.SlotTime != "" && !timeutil.IsValidTimeString(req.SlotTime) {
		return nil, apperrors.Validation("slot_time", fmt.Sprintf("%q is not a valid HH:mm time", req.SlotTime))
	}

	givenAt := time.Now().UTC()
	if req.GivenAt != "" {
		givenAt, err = time.Parse(time.RFC3339, req.GivenAt)
		if err != nil {
			return nil, apperrors.BadRequest("invalid given_at: expected RFC3339", err)
		}
	}

	log := &model.TreatmentLog{
		PetID:         petID,
		ScheduleID:    scheduleID,
		TreatmentType: model.TreatmentType(req.TreatmentType),
		SlotTime:      req.SlotTime,
		GivenAt:       givenAt,
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create treatment log: %w", err)
	}
	return log, nil
}

func (s *Service) ListForDay(ctx context.Context, petID uuid.UUID, day time.Time) ([]model.TreatmentLog, error) {
	return s.repo.ListForPetOnDay(ctx, petID, day)
}

// LoggedSlots returns the "scheduleID|HH:mm" keys of slots already
// fulfilled on the day. Ad-hoc logs without a slot are ignored.
func (s *Service) LoggedSlots(ctx context.Context, petID uuid.UUID, day time.Time) (map[string]bool, error) {
	logs, err := s.repo.ListForPetOnDay(ctx, petID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list treatment logs: %w", err)
	}

	slots := make(map[string]bool, len(logs))
	for _, l := range logs {
		if l.SlotTime == "" {
			continue
		}
		slots[l.ScheduleID.String()+"|"+l.SlotTime] = true
	}
	return slots, nil
}
