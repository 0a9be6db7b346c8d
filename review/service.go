package review

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidScore signals a score outside [1,5].
	ErrInvalidScore = errors.New("review: score must be between 1 and 5")
	// ErrInvalidRole signals a role outside owner/sitter.
	ErrInvalidRole = errors.New("review: invalid role")
	// ErrSelfReview signals an author reviewing themselves.
	ErrSelfReview = errors.New("review: cannot review yourself")
)

// Result bundles the stored review with the recipient's recomputed aggregate.
type Result struct {
	Review        Review
	AverageRating float64
}

// Service records reviews and keeps the recipient's rating aggregate exact.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record validates and persists a review, then recomputes the recipient's
// average over all of their reviews.
func (s *Service) Record(ctx context.Context, authorID string, params CreateParams) (Result, error) {
	if params.Score < 1 || params.Score > 5 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidScore, params.Score)
	}
	if !IsValidRole(params.Role) {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidRole, params.Role)
	}
	if params.RecipientID == authorID {
		return Result{}, ErrSelfReview
	}

	rev, average, err := s.repo.InsertAndRecompute(ctx, authorID, params)
	if err != nil {
		return Result{}, err
	}

	return Result{Review: rev, AverageRating: average}, nil
}

// ListForRecipient returns the reviews written about an appuser.
func (s *Service) ListForRecipient(ctx context.Context, recipientID string) ([]Review, error) {
	return s.repo.ListByRecipient(ctx, recipientID)
}
