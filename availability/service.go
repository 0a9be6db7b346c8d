package availability

import (
	"context"
	"time"

	"petsitter/authz"
)

// Service exposes availability scheduling for sitters.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add declares a date as available on the caller's own calendar.
func (s *Service) Add(ctx context.Context, callerID, appuserID string, date time.Time) (Availability, error) {
	if err := authz.RequireSelf(callerID, appuserID); err != nil {
		return Availability{}, err
	}
	return s.repo.Insert(ctx, appuserID, date)
}

// List returns an appuser's declared dates in date order.
func (s *Service) List(ctx context.Context, appuserID string) ([]Availability, error) {
	return s.repo.ListByAppuser(ctx, appuserID)
}

// Remove deletes a declared date after checking the caller owns it.
func (s *Service) Remove(ctx context.Context, callerID, id string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireSelf(callerID, current.AppuserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
