package appuser

import (
	"context"
	"errors"
	"fmt"

	"petsitter/authz"
)

// ErrInvalidInput signals a malformed update payload.
var ErrInvalidInput = errors.New("appuser: invalid input")

// Service exposes business-level appuser operations.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the appuser with the given id.
func (s *Service) Get(ctx context.Context, id string) (Appuser, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update to the caller's own record. Absence is
// checked before authorization so a wrong id reads as not-found rather than
// leaking whether the record exists.
func (s *Service) Update(ctx context.Context, callerID, id string, params UpdateParams) (Appuser, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appuser{}, err
	}
	if err := authz.RequireSelf(callerID, current.ID); err != nil {
		return Appuser{}, err
	}

	if params.AccountLanguage != nil && !IsValidLanguage(*params.AccountLanguage) {
		return Appuser{}, fmt.Errorf("%w: account_language %q", ErrInvalidInput, *params.AccountLanguage)
	}
	if params.Email != nil && *params.Email == "" {
		return Appuser{}, fmt.Errorf("%w: email must not be empty", ErrInvalidInput)
	}

	return s.repo.UpdatePartial(ctx, id, params)
}
