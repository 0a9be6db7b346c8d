package sitter

import (
	"context"
	"errors"

	"petsitter/authz"
)

// ErrPrefectureRequired signals a search without the mandatory prefecture.
var ErrPrefectureRequired = errors.New("sitter: prefecture is required")

// Service exposes sitter profile management and the matching search.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upsert lazily creates or partially updates the caller's own sitter profile.
func (s *Service) Upsert(ctx context.Context, callerID, appuserID string, params UpsertParams) (Profile, error) {
	if err := authz.RequireSelf(callerID, appuserID); err != nil {
		return Profile{}, err
	}
	return s.repo.Upsert(ctx, appuserID, params)
}

// Get returns the sitter profile for an appuser.
func (s *Service) Get(ctx context.Context, appuserID string) (Profile, error) {
	return s.repo.GetByAppuserID(ctx, appuserID)
}

// GetExtended returns an appuser joined with its sitter profile.
func (s *Service) GetExtended(ctx context.Context, appuserID string) (Extended, error) {
	return s.repo.GetExtended(ctx, appuserID)
}

// FindSitters runs the matching search. An empty result is not an error.
func (s *Service) FindSitters(ctx context.Context, filters SearchFilters) ([]Listing, error) {
	if filters.Prefecture == "" {
		return nil, ErrPrefectureRequired
	}
	return s.repo.Search(ctx, filters)
}
