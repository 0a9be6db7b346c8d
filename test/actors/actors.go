package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"petsitter/availability"
	"petsitter/inquiry"
	"petsitter/messaging"
	"petsitter/review"
)

// Finalizer hammers the status transition of one inquiry. Under contention at
// most one finalization may win; every later attempt must read as already
// finalized.
func Finalizer(ctx context.Context, svc *inquiry.Service, callerID, inquiryID string, target inquiry.Status, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := svc.UpdateStatus(ctx, callerID, inquiryID, target)
		if err != nil && !errors.Is(err, inquiry.ErrAlreadyFinalized) {
			return fmt.Errorf("finalizer %s: %w", callerID, err)
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// Messenger keeps a conversation going from one side of the inquiry.
func Messenger(ctx context.Context, svc *messaging.Service, callerID, inquiryID string, stop <-chan struct{}) error {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		n++
		if _, err := svc.Create(ctx, callerID, inquiryID, fmt.Sprintf("message %d from %s", n, callerID)); err != nil {
			return fmt.Errorf("messenger %s: %w", callerID, err)
		}
		time.Sleep(time.Duration(15+rand.Intn(35)) * time.Millisecond)
	}
}

// Scheduler declares and withdraws availability dates, deliberately colliding
// with itself to exercise the per-date uniqueness guard.
func Scheduler(ctx context.Context, svc *availability.Service, appuserID string, stop <-chan struct{}) error {
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		date := base.AddDate(0, 0, rand.Intn(10))
		a, err := svc.Add(ctx, appuserID, appuserID, date)
		if err != nil {
			if !errors.Is(err, availability.ErrDuplicateDate) {
				return fmt.Errorf("scheduler add: %w", err)
			}
		} else if rand.Intn(3) == 0 {
			if err := svc.Remove(ctx, appuserID, a.ID); err != nil && !errors.Is(err, availability.ErrNotFound) {
				return fmt.Errorf("scheduler remove: %w", err)
			}
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Reviewer appends reviews with random scores so the rating aggregate is
// recomputed under concurrent writes.
func Reviewer(ctx context.Context, svc *review.Service, authorID, recipientID string, role review.Role, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		params := review.CreateParams{RecipientID: recipientID, Role: role, Score: 1 + rand.Intn(5)}
		if _, err := svc.Record(ctx, authorID, params); err != nil {
			return fmt.Errorf("reviewer %s: %w", authorID, err)
		}
		time.Sleep(time.Duration(30+rand.Intn(60)) * time.Millisecond)
	}
}

// ContentEditor patches the inquiry's free-form fields while the finalizers
// race to close it. Edits against a finalized inquiry must be refused, never
// applied.
func ContentEditor(ctx context.Context, svc *inquiry.Service, ownerID, inquiryID string, stop <-chan struct{}) error {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		n++
		info := fmt.Sprintf("edit %d", n)
		_, err := svc.UpdateContent(ctx, ownerID, inquiryID, inquiry.ContentUpdateParams{AdditionalInfo: &info})
		if err != nil && !errors.Is(err, inquiry.ErrAlreadyFinalized) {
			return fmt.Errorf("content editor: %w", err)
		}
		time.Sleep(time.Duration(25+rand.Intn(50)) * time.Millisecond)
	}
}
