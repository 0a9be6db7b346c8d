package inquiry

import (
	"context"
	"errors"
	"fmt"

	"petsitter/authz"
	"petsitter/pet"
)

var (
	// ErrInvalidInput signals a malformed create or update payload.
	ErrInvalidInput = errors.New("inquiry: invalid input")
	// ErrInvalidStatus signals a status target outside approved/rejected.
	ErrInvalidStatus = errors.New("inquiry: invalid status target")
	// ErrPetNotOwned signals an attached pet that does not belong to the owner.
	ErrPetNotOwned = errors.New("inquiry: pet not owned by inquiry owner")
)

// PetStore is the subset of pet persistence the inquiry service needs to
// validate and resolve attached pets.
type PetStore interface {
	CountOwnedBy(ctx context.Context, ownerID string, petIDs []string) (int, error)
	GetByID(ctx context.Context, id string) (pet.Pet, error)
}

// Service drives the inquiry lifecycle.
type Service struct {
	repo Repository
	pets PetStore
}

// NewService builds a Service from the inquiry repository and a pet store.
func NewService(repo Repository, pets PetStore) *Service {
	return &Service{repo: repo, pets: pets}
}

// Create opens an inquiry in requested state. The caller must be the owner
// side, the date range and service kind must be valid, and every attached pet
// must belong to the owner.
func (s *Service) Create(ctx context.Context, callerID string, params CreateParams) (Inquiry, error) {
	if err := authz.RequireSelf(callerID, params.OwnerID); err != nil {
		return Inquiry{}, err
	}

	if params.SitterID == "" {
		return Inquiry{}, fmt.Errorf("%w: sitter id is required", ErrInvalidInput)
	}
	if params.SitterID == params.OwnerID {
		return Inquiry{}, fmt.Errorf("%w: owner and sitter must differ", ErrInvalidInput)
	}
	if params.StartDate.IsZero() || params.EndDate.IsZero() || params.EndDate.Before(params.StartDate) {
		return Inquiry{}, fmt.Errorf("%w: invalid date range", ErrInvalidInput)
	}
	if !IsValidService(params.DesiredService) {
		return Inquiry{}, fmt.Errorf("%w: desired_service %q", ErrInvalidInput, params.DesiredService)
	}

	if len(params.PetIDs) > 0 {
		owned, err := s.pets.CountOwnedBy(ctx, params.OwnerID, params.PetIDs)
		if err != nil {
			return Inquiry{}, err
		}
		if owned != len(params.PetIDs) {
			return Inquiry{}, ErrPetNotOwned
		}
	}

	return s.repo.Create(ctx, params)
}

// Get returns an inquiry visible to one of its parties.
func (s *Service) Get(ctx context.Context, callerID, id string) (Inquiry, error) {
	inq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Inquiry{}, err
	}
	if err := authz.RequireParty(callerID, inq.OwnerID, inq.SitterID); err != nil {
		return Inquiry{}, err
	}
	return inq, nil
}

// ListForUser returns the inquiries the caller participates in.
func (s *Service) ListForUser(ctx context.Context, callerID, appuserID string) ([]Inquiry, error) {
	if err := authz.RequireSelf(callerID, appuserID); err != nil {
		return nil, err
	}
	return s.repo.ListForUser(ctx, appuserID)
}

// UpdateStatus finalizes the inquiry. Either party may approve or reject; the
// transition succeeds at most once and stamps the finalization time.
func (s *Service) UpdateStatus(ctx context.Context, callerID, id string, target Status) (Inquiry, error) {
	if target != StatusApproved && target != StatusRejected {
		return Inquiry{}, fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}

	inq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Inquiry{}, err
	}
	if err := authz.RequireParty(callerID, inq.OwnerID, inq.SitterID); err != nil {
		return Inquiry{}, err
	}

	return s.repo.Finalize(ctx, id, target)
}

// UpdateContent applies a partial edit to the inquiry's free-form fields and
// attached pet set. Only the owner may edit, and only while the inquiry is
// still in requested state; finalized inquiries are immutable.
func (s *Service) UpdateContent(ctx context.Context, callerID, id string, params ContentUpdateParams) (Inquiry, error) {
	inq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Inquiry{}, err
	}
	if err := authz.RequireSelf(callerID, inq.OwnerID); err != nil {
		return Inquiry{}, err
	}
	if inq.Status != StatusRequested {
		return Inquiry{}, ErrAlreadyFinalized
	}

	start := inq.StartDate
	if params.StartDate != nil {
		start = *params.StartDate
	}
	end := inq.EndDate
	if params.EndDate != nil {
		end = *params.EndDate
	}
	if end.Before(start) {
		return Inquiry{}, fmt.Errorf("%w: invalid date range", ErrInvalidInput)
	}
	if params.DesiredService != nil && !IsValidService(*params.DesiredService) {
		return Inquiry{}, fmt.Errorf("%w: desired_service %q", ErrInvalidInput, *params.DesiredService)
	}

	if params.PetIDs != nil {
		owned, err := s.pets.CountOwnedBy(ctx, inq.OwnerID, params.PetIDs)
		if err != nil {
			return Inquiry{}, err
		}
		if owned != len(params.PetIDs) {
			return Inquiry{}, ErrPetNotOwned
		}
	}

	return s.repo.UpdateContent(ctx, id, params)
}

// AttachedPets resolves the inquiry's pet set for either party. Pets deleted
// since attachment are reported as missing ids instead of failing the read.
func (s *Service) AttachedPets(ctx context.Context, callerID, id string) (PetResolution, error) {
	inq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PetResolution{}, err
	}
	if err := authz.RequireParty(callerID, inq.OwnerID, inq.SitterID); err != nil {
		return PetResolution{}, err
	}

	res := PetResolution{
		Pets:       make([]pet.Pet, 0, len(inq.PetIDs)),
		MissingIDs: make([]string, 0),
	}
	for _, petID := range inq.PetIDs {
		p, err := s.pets.GetByID(ctx, petID)
		if err != nil {
			if errors.Is(err, pet.ErrNotFound) {
				res.MissingIDs = append(res.MissingIDs, petID)
				continue
			}
			return PetResolution{}, err
		}
		res.Pets = append(res.Pets, p)
	}

	return res, nil
}
