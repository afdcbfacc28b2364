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

func (r *scheduleRepository) CreateMedication(ctx context.Context, schedule *model.MedicationSchedule) error {
	query := `
		INSERT INTO medication_schedules (
			id, pet_id, medication_name, dosage, recurrence,
			start_date, reminder_times, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	schedule.ID = uuid.New()
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.PetID,
		schedule.MedicationName,
		schedule.Dosage,
		schedule.Recurrence,
		schedule.StartDate,
		schedule.ReminderTimes,
		schedule.Active,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medication schedule: %w", err)
	}
	return nil
}

func (r *scheduleRepository) GetMedication(ctx context.Context, id uuid.UUID) (*model.MedicationSchedule, error) {
	query := `
		SELECT id, pet_id, medication_name, dosage, recurrence,
			   start_date, reminder_times, active, created_at, updated_at
		FROM medication_schedules
		WHERE id = $1 AND deleted_at IS NULL
	`
	var schedule model.MedicationSchedule
	err := r.db.GetContext(ctx, &schedule, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("medication schedule not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication schedule: %w", err)
	}
	return &schedule, nil
}

func (r *scheduleRepository) ListMedicationsForPet(ctx context.Context, petID uuid.UUID) ([]model.MedicationSchedule, error) {
	query := `
		SELECT id, pet_id, medication_name, dosage, recurrence,
			   start_date, reminder_times, active, created_at, updated_at
		FROM medication_schedules
		WHERE pet_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`
	var schedules []model.MedicationSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, petID); err != nil {
		return nil, fmt.Errorf("failed to list medication schedules: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) UpdateMedication(ctx context.Context, schedule *model.MedicationSchedule) error {
	query := `
		UPDATE medication_schedules
		SET medication_name = $1, dosage = $2, recurrence = $3,
			reminder_times = $4, active = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`
	schedule.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		schedule.MedicationName,
		schedule.Dosage,
		schedule.Recurrence,
		schedule.ReminderTimes,
		schedule.Active,
		schedule.UpdatedAt,
		schedule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medication schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("medication schedule not found")
	}
	return nil
}

func (r *scheduleRepository) DeleteMedication(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE medication_schedules SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to delete medication schedule: %w", err)
	}
	return nil
}

func (r *scheduleRepository) UpsertFluid(ctx context.Context, schedule *model.FluidSchedule) error {
	query := `
		INSERT INTO fluid_schedules (
			id, pet_id, volume_ml, recurrence, start_date,
			reminder_times, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (pet_id) DO UPDATE SET
			volume_ml = EXCLUDED.volume_ml,
			recurrence = EXCLUDED.recurrence,
			start_date = EXCLUDED.start_date,
			reminder_times = EXCLUDED.reminder_times,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
		schedule.CreatedAt = time.Now()
	}
	schedule.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.PetID,
		schedule.VolumeML,
		schedule.Recurrence,
		schedule.StartDate,
		schedule.ReminderTimes,
		schedule.Active,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fluid schedule: %w", err)
	}
	return nil
}

func (r *scheduleRepository) GetFluidForPet(ctx context.Context, petID uuid.UUID) (*model.FluidSchedule, error) {
	query := `
		SELECT id, pet_id, volume_ml, recurrence, start_date,
			   reminder_times, active, created_at, updated_at
		FROM fluid_schedules
		WHERE pet_id = $1 AND deleted_at IS NULL
	`
	var schedule model.FluidSchedule
	err := r.db.GetContext(ctx, &schedule, query, petID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fluid schedule: %w", err)
	}
	return &schedule, nil
}
