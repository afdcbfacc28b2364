package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felicare/ckd-api/internal/model"
)

type PetRepository interface {
	Create(ctx context.Context, pet *model.Pet) error
	Get(ctx context.Context, id uuid.UUID) (*model.Pet, error)
	List(ctx context.Context, caregiverID uuid.UUID) ([]*model.Pet, error)
	ListActive(ctx context.Context) ([]*model.Pet, error)
	Update(ctx context.Context, pet *model.Pet) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ScheduleRepository interface {
	CreateMedication(ctx context.Context, schedule *model.MedicationSchedule) error
	GetMedication(ctx context.Context, id uuid.UUID) (*model.MedicationSchedule, error)
	ListMedicationsForPet(ctx context.Context, petID uuid.UUID) ([]model.MedicationSchedule, error)
	UpdateMedication(ctx context.Context, schedule *model.MedicationSchedule) error
	DeleteMedication(ctx context.Context, id uuid.UUID) error
	UpsertFluid(ctx context.Context, schedule *model.FluidSchedule) error
	GetFluidForPet(ctx context.Context, petID uuid.UUID) (*model.FluidSchedule, error)
}

type TreatmentRepository interface {
	Create(ctx context.Context, log *model.TreatmentLog) error
	ListForPetOnDay(ctx context.Context, petID uuid.UUID, day time.Time) ([]model.TreatmentLog, error)
}

type SettingsRepository interface {
	// Get returns nil without error when no row exists for the caregiver.
	Get(ctx context.Context, caregiverID uuid.UUID) (*model.NotificationSettings, error)
	Upsert(ctx context.Context, settings *model.NotificationSettings) error
}
