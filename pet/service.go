package pet

import (
	"context"
	"errors"
	"fmt"

	"petsitter/authz"
)

// ErrInvalidInput signals a species, gender or weight violation.
var ErrInvalidInput = errors.New("pet: invalid input")

// Service exposes owner-scoped pet CRUD.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a pet under the caller's own account.
func (s *Service) Create(ctx context.Context, callerID, ownerID string, params CreateParams) (Pet, error) {
	if err := authz.RequireSelf(callerID, ownerID); err != nil {
		return Pet{}, err
	}

	if params.Name == "" {
		return Pet{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !IsValidSpecies(params.Species) {
		return Pet{}, fmt.Errorf("%w: species %q", ErrInvalidInput, params.Species)
	}
	if params.Gender != nil && !IsValidGender(*params.Gender) {
		return Pet{}, fmt.Errorf("%w: gender %q", ErrInvalidInput, *params.Gender)
	}
	if params.Weight != nil && *params.Weight <= 0 {
		return Pet{}, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}

	return s.repo.Create(ctx, ownerID, params)
}

// Get returns a pet by id.
func (s *Service) Get(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByOwner returns an owner's pets in stable order.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update applies a partial update after checking the caller owns the pet.
func (s *Service) Update(ctx context.Context, callerID, id string, params UpdateParams) (Pet, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if err := authz.RequireSelf(callerID, current.OwnerID); err != nil {
		return Pet{}, err
	}

	if params.Name != nil && *params.Name == "" {
		return Pet{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if params.Species != nil && !IsValidSpecies(*params.Species) {
		return Pet{}, fmt.Errorf("%w: species %q", ErrInvalidInput, *params.Species)
	}
	if params.Gender != nil && !IsValidGender(*params.Gender) {
		return Pet{}, fmt.Errorf("%w: gender %q", ErrInvalidInput, *params.Gender)
	}
	if params.Weight != nil && *params.Weight <= 0 {
		return Pet{}, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}

	return s.repo.UpdatePartial(ctx, id, params)
}

// Delete removes a pet after checking the caller owns it.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireSelf(callerID, current.OwnerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
