package pet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felicare/ckd-api/internal/model"
	"github.com/felicare/ckd-api/internal/repository"
	apperrors "github.com/felicare/ckd-api/pkg/errors"
)

type Service struct {
	repo repository.PetRepository
}

func NewService(repo repository.PetRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, caregiverID uuid.UUID, req *model.CreatePetRequest) (*model.Pet, error) {
	pet := &model.Pet{
		CaregiverID: caregiverID,
		Name:        req.Name,
		WeightKg:    req.WeightKg,
		IRISStage:   req.IRISStage,
		Status:      model.PetStatusActive,
	}

	if req.BirthDate != "" {
		birth, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, apperrors.BadRequest("invalid birth_date: expected yyyy-mm-dd", err)
		}
		pet.BirthDate = &birth
	}

	if err := s.repo.Create(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	return pet, nil
}

// Get returns the pet only when it belongs to the caregiver.
func (s *Service) Get(ctx context.Context, caregiverID, petID uuid.UUID) (*model.Pet, error) {
	pet, err := s.repo.Get(ctx, petID)
	if err != nil {
		return nil, apperrors.NotFound("pet", err)
	}
	if pet.CaregiverID != caregiverID {
		return nil, apperrors.NotFound("pet", nil)
	}
	return pet, nil
}

func (s *Service) List(ctx context.Context, caregiverID uuid.UUID) ([]*model.Pet, error) {
	return s.repo.List(ctx, caregiverID)
}

func (s *Service) Update(ctx context.Context, caregiverID, petID uuid.UUID, req *model.UpdatePetRequest) (*model.Pet, error) {
	pet, err := s.Get(ctx, caregiverID, petID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pet.Name = *req.Name
	}
	if req.WeightKg != nil {
		pet.WeightKg = *req.WeightKg
	}
	if req.IRISStage != nil {
		pet.IRISStage = *req.IRISStage
	}
	if req.Status != nil {
		pet.Status = model.PetStatus(*req.Status)
	}

	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to update pet: %w", err)
	}
	return pet, nil
}

func (s *Service) Delete(ctx context.Context, caregiverID, petID uuid.UUID) error {
	if _, err := s.Get(ctx, caregiverID, petID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, petID)
}

// ListActive lists every active pet across caregivers, for the
// background reconciler.
func (s *Service) ListActive(ctx context.Context) ([]*model.Pet, error) {
	return s.repo.ListActive(ctx)
}
