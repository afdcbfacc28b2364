package model

import (
	"time"

	"github.com/google/uuid"
)

type PetStatus string

const (
	PetStatusActive   PetStatus = "active"
	PetStatusArchived PetStatus = "archived"
)

// Pet is a cat under CKD care, owned by a single caregiver.
type Pet struct {
	Base
	CaregiverID uuid.UUID  `db:"caregiver_id" json:"caregiver_id"`
	Name        string     `db:"name" json:"name"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	WeightKg    float64    `db:"weight_kg" json:"weight_kg"`
	IRISStage   int        `db:"iris_stage" json:"iris_stage"`
	Status      PetStatus  `db:"status" json:"status"`
}

type CreatePetRequest struct {
	Name      string  `json:"name" binding:"required"`
	BirthDate string  `json:"birth_date,omitempty"`
	WeightKg  float64 `json:"weight_kg" binding:"omitempty,gt=0"`
	IRISStage int     `json:"iris_stage" binding:"omitempty,min=1,max=4"`
}

type UpdatePetRequest struct {
	Name      *string  `json:"name,omitempty"`
	WeightKg  *float64 `json:"weight_kg,omitempty" binding:"omitempty,gt=0"`
	IRISStage *int     `json:"iris_stage,omitempty" binding:"omitempty,min=1,max=4"`
	Status    *string  `json:"status,omitempty" binding:"omitempty,oneof=active archived"`
}
