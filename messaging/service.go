package messaging

import (
	"context"
	"errors"
	"fmt"

	"petsitter/authz"
	"petsitter/inquiry"
)

// ErrEmptyContent signals a message with no content.
var ErrEmptyContent = errors.New("messaging: content is required")

// InquiryStore is the subset of inquiry persistence needed to resolve the two
// parties of a conversation.
type InquiryStore interface {
	GetByID(ctx context.Context, id string) (inquiry.Inquiry, error)
}

// Service exposes the per-inquiry message history and realtime fan-out.
type Service struct {
	repo      Repository
	inquiries InquiryStore
	hub       *Hub
}

// NewService builds a Service. The hub may be nil when realtime fan-out is not
// wanted, e.g. in tests.
func NewService(repo Repository, inquiries InquiryStore, hub *Hub) *Service {
	return &Service{repo: repo, inquiries: inquiries, hub: hub}
}

// Create appends a message authored by the caller. The caller must be one of
// the inquiry's parties; the recipient is the opposite party. The stored
// message is broadcast best-effort to the inquiry's live channels.
func (s *Service) Create(ctx context.Context, callerID, inquiryID, content string) (Message, error) {
	if content == "" {
		return Message{}, ErrEmptyContent
	}

	inq, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		return Message{}, err
	}
	if err := authz.RequireParty(callerID, inq.OwnerID, inq.SitterID); err != nil {
		return Message{}, err
	}

	recipientID := inq.OwnerID
	if callerID == inq.OwnerID {
		recipientID = inq.SitterID
	}

	msg, err := s.repo.Insert(ctx, inquiryID, callerID, recipientID, content)
	if err != nil {
		return Message{}, fmt.Errorf("messaging: create: %w", err)
	}

	if s.hub != nil {
		s.hub.Broadcast(Event{
			InquiryID:   msg.InquiryID,
			MessageID:   msg.ID,
			AuthorID:    msg.AuthorID,
			RecipientID: msg.RecipientID,
			Content:     msg.Content,
			SentAt:      msg.SentAt,
		})
	}

	return msg, nil
}

// List returns the inquiry's history for one of its parties, oldest first.
func (s *Service) List(ctx context.Context, callerID, inquiryID string) ([]Message, error) {
	inq, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireParty(callerID, inq.OwnerID, inq.SitterID); err != nil {
		return nil, err
	}

	return s.repo.ListByInquiry(ctx, inquiryID)
}

// Authorize reports whether the caller may join the inquiry's live channel.
func (s *Service) Authorize(ctx context.Context, callerID, inquiryID string) error {
	inq, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		return err
	}
	return authz.RequireParty(callerID, inq.OwnerID, inq.SitterID)
}
