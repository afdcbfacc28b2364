package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felicare/ckd-api/internal/model"
)

func (r *treatmentRepository) Create(ctx context.Context, log *model.TreatmentLog) error {
	query := `
		INSERT INTO treatment_logs (
			id, pet_id, schedule_id, treatment_type, slot_time,
			given_at, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	log.ID = uuid.New()
	log.CreatedAt = time.Now()
	log.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.PetID,
		log.ScheduleID,
		log.TreatmentType,
		log.SlotTime,
		log.GivenAt,
		log.Notes,
		log.CreatedAt,
		log.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create treatment log: %w", err)
	}
	return nil
}

func (r *treatmentRepository) ListForPetOnDay(ctx context.Context, petID uuid.UUID, day time.Time) ([]model.TreatmentLog, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT id, pet_id, schedule_id, treatment_type, slot_time,
			   given_at, notes, created_at, updated_at
		FROM treatment_logs
		WHERE pet_id = $1 AND given_at >= $2 AND given_at < $3
		ORDER BY given_at
	`
	var logs []model.TreatmentLog
	if err := r.db.SelectContext(ctx, &logs, query, petID, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("failed to list treatment logs: %w", err)
	}
	return logs, nil
}
