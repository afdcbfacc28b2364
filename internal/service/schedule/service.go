package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/felicare/ckd-api/internal/model"
	"github.com/felicare/ckd-api/internal/recurrence"
	"github.com/felicare/ckd-api/internal/repository"
	apperrors "github.com/felicare/ckd-api/pkg/errors"
	"github.com/felicare/ckd-api/pkg/timeutil"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Service owns medication and fluid schedules. Reads go through a
// short-lived cache so the reconciler does not hammer the database on
// every pass; writes invalidate the pet's cached entries.
type Service struct {
	repo  repository.ScheduleRepository
	cache *cache.Cache
}

func NewService(repo repository.ScheduleRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, cacheCleanup),
	}
}

func medsKey(petID uuid.UUID) string  { return "meds_" + petID.String() }
func fluidKey(petID uuid.UUID) string { return "fluid_" + petID.String() }

func (s *Service) invalidate(petID uuid.UUID) {
	s.cache.Delete(medsKey(petID))
	s.cache.Delete(fluidKey(petID))
}

// MedicationSchedules returns the pet's medication schedules, cached.
func (s *Service) MedicationSchedules(ctx context.Context, petID uuid.UUID) ([]model.MedicationSchedule, error) {
	if cached, ok := s.cache.Get(medsKey(petID)); ok {
		return cached.([]model.MedicationSchedule), nil
	}
	schedules, err := s.repo.ListMedicationsForPet(ctx, petID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medication schedules: %w", err)
	}
	s.cache.Set(medsKey(petID), schedules, cache.DefaultExpiration)
	return schedules, nil
}

// FluidSchedule returns the pet's fluid schedule, cached; nil when the
// pet has none.
func (s *Service) FluidSchedule(ctx context.Context, petID uuid.UUID) (*model.FluidSchedule, error) {
	if cached, ok := s.cache.Get(fluidKey(petID)); ok {
		return cached.(*model.FluidSchedule), nil
	}
	schedule, err := s.repo.GetFluidForPet(ctx, petID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fluid schedule: %w", err)
	}
	s.cache.Set(fluidKey(petID), schedule, cache.DefaultExpiration)
	return schedule, nil
}

func (s *Service) CreateMedication(ctx context.Context, petID uuid.UUID, req *model.CreateMedicationScheduleRequest) (*model.MedicationSchedule, error) {
	if err := validateRule(req.Recurrence); err != nil {
		return nil, err
	}
	if err := validateTimes(req.ReminderTimes); err != nil {
		return nil, err
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperrors.BadRequest("invalid start_date: expected yyyy-mm-dd", err)
	}

	schedule := &model.MedicationSchedule{
		PetID:          petID,
		MedicationName: req.MedicationName,
		Dosage:         req.Dosage,
		Recurrence:     req.Recurrence,
		StartDate:      start,
		ReminderTimes:  req.ReminderTimes,
		Active:         true,
	}
	if err := s.repo.CreateMedication(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create medication schedule: %w", err)
	}
	s.invalidate(petID)
	return schedule, nil
}

func (s *Service) GetMedication(ctx context.Context, petID, scheduleID uuid.UUID) (*model.MedicationSchedule, error) {
	schedule, err := s.repo.GetMedication(ctx, scheduleID)
	if err != nil {
		return nil, apperrors.NotFound("medication schedule", err)
	}
	if schedule.PetID != petID {
		return nil, apperrors.NotFound("medication schedule", nil)
	}
	return schedule, nil
}

func (s *Service) UpdateMedication(ctx context.Context, petID, scheduleID uuid.UUID, req *model.UpdateMedicationScheduleRequest) (*model.MedicationSchedule, error) {
	schedule, err := s.GetMedication(ctx, petID, scheduleID)
	if err != nil {
		return nil, err
	}

	if req.MedicationName != nil {
		schedule.MedicationName = *req.MedicationName
	}
	if req.Dosage != nil {
		schedule.Dosage = *req.Dosage
	}
	if req.Recurrence != nil {
		if err := validateRule(*req.Recurrence); err != nil {
			return nil, err
		}
		schedule.Recurrence = *req.Recurrence
	}
	if req.ReminderTimes != nil {
		if err := validateTimes(req.ReminderTimes); err != nil {
			return nil, err
		}
		schedule.ReminderTimes = req.ReminderTimes
	}
	if req.Active != nil {
		schedule.Active = *req.Active
	}

	if err := s.repo.UpdateMedication(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to update medication schedule: %w", err)
	}
	s.invalidate(petID)
	return schedule, nil
}

func (s *Service) DeleteMedication(ctx context.Context, petID, scheduleID uuid.UUID) error {
	if _, err := s.GetMedication(ctx, petID, scheduleID); err != nil {
		return err
	}
	if err := s.repo.DeleteMedication(ctx, scheduleID); err != nil {
		return fmt.Errorf("failed to delete medication schedule: %w", err)
	}
	s.invalidate(petID)
	return nil
}

func (s *Service) UpsertFluid(ctx context.Context, petID uuid.UUID, req *model.UpsertFluidScheduleRequest) (*model.FluidSchedule, error) {
	if err := validateRule(req.Recurrence); err != nil {
		return nil, err
	}
	if err := validateTimes(req.ReminderTimes); err != nil {
		return nil, err
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperrors.BadRequest("invalid start_date: expected yyyy-mm-dd", err)
	}

	schedule := &model.FluidSchedule{
		PetID:         petID,
		VolumeML:      req.VolumeML,
		Recurrence:    req.Recurrence,
		StartDate:     start,
		ReminderTimes: req.ReminderTimes,
		Active:        req.Active,
	}
	if err := s.repo.UpsertFluid(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to upsert fluid schedule: %w", err)
	}
	s.invalidate(petID)
	return schedule, nil
}

func validateRule(rule string) error {
	if _, err := recurrence.Parse(rule); err != nil {
		return apperrors.BadRequest(fmt.Sprintf("invalid recurrence %q", rule), err)
	}
	return nil
}

func validateTimes(times []string) error {
	for _, t := range times {
		if !timeutil.IsValidTimeString(t) {
			return apperrors.Validation("reminder_times", fmt.Sprintf("%q is not a valid HH:mm time", t))
		}
	}
	return nil
}
