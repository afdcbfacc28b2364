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

func (r *petRepository) Create(ctx context.Context, pet *model.Pet) error {
	query := `
		INSERT INTO pets (
			id, caregiver_id, name, birth_date, weight_kg,
			iris_stage, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	pet.ID = uuid.New()
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		pet.ID,
		pet.CaregiverID,
		pet.Name,
		pet.BirthDate,
		pet.WeightKg,
		pet.IRISStage,
		pet.Status,
		pet.CreatedAt,
		pet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

func (r *petRepository) Get(ctx context.Context, id uuid.UUID) (*model.Pet, error) {
	query := `
		SELECT id, caregiver_id, name, birth_date, weight_kg,
			   iris_stage, status, created_at, updated_at
		FROM pets
		WHERE id = $1 AND deleted_at IS NULL
	`
	var pet model.Pet
	err := r.db.GetContext(ctx, &pet, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pet not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return &pet, nil
}

func (r *petRepository) List(ctx context.Context, caregiverID uuid.UUID) ([]*model.Pet, error) {
	query := `
		SELECT id, caregiver_id, name, birth_date, weight_kg,
			   iris_stage, status, created_at, updated_at
		FROM pets
		WHERE caregiver_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`
	var pets []*model.Pet
	if err := r.db.SelectContext(ctx, &pets, query, caregiverID); err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	return pets, nil
}

func (r *petRepository) ListActive(ctx context.Context) ([]*model.Pet, error) {
	query := `
		SELECT id, caregiver_id, name, birth_date, weight_kg,
			   iris_stage, status, created_at, updated_at
		FROM pets
		WHERE status = $1 AND deleted_at IS NULL
	`
	var pets []*model.Pet
	if err := r.db.SelectContext(ctx, &pets, query, model.PetStatusActive); err != nil {
		return nil, fmt.Errorf("failed to list active pets: %w", err)
	}
	return pets, nil
}

func (r *petRepository) Update(ctx context.Context, pet *model.Pet) error {
	query := `
		UPDATE pets
		SET name = $1, weight_kg = $2, iris_stage = $3, status = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`
	pet.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		pet.Name,
		pet.WeightKg,
		pet.IRISStage,
		pet.Status,
		pet.UpdatedAt,
		pet.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update pet: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("pet not found")
	}
	return nil
}

func (r *petRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE pets SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	return nil
}
