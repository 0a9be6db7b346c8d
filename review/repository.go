package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRecipientNotFound signals the reviewed appuser does not exist.
var ErrRecipientNotFound = errors.New("review: recipient not found")

// Repository handles review persistence and the rating aggregate.
type Repository interface {
	InsertAndRecompute(ctx context.Context, authorID string, params CreateParams) (Review, float64, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]Review, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// InsertAndRecompute appends the review and overwrites the recipient's
// average_user_rating with the exact mean of all their review scores, in one
// transaction. Recomputation is O(review count) per write, which is fine at
// this scale.
func (r *PGRepository) InsertAndRecompute(ctx context.Context, authorID string, params CreateParams) (Review, float64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Review{}, 0, fmt.Errorf("review: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize writers per recipient. Without the lock two concurrent
	// transactions can each compute an average that misses the other's row.
	var lockedID string
	err = tx.QueryRow(ctx, `SELECT id FROM appusers WHERE id = $1 FOR UPDATE`, params.RecipientID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, 0, ErrRecipientNotFound
		}
		return Review{}, 0, fmt.Errorf("review: lock recipient: %w", err)
	}

	const insertSQL = `
		INSERT INTO reviews (author_id, recipient_id, role, score, comment)
		VALUES ($1, $2, $3::review_role, $4, $5)
		RETURNING id, author_id, recipient_id, role::text, score, comment, created_at
	`

	var (
		rev  Review
		role string
	)
	err = tx.QueryRow(ctx, insertSQL, authorID, params.RecipientID, string(params.Role), params.Score, params.Comment).
		Scan(&rev.ID, &rev.AuthorID, &rev.RecipientID, &role, &rev.Score, &rev.Comment, &rev.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Review{}, 0, ErrRecipientNotFound
		}
		return Review{}, 0, fmt.Errorf("review: insert: %w", err)
	}
	rev.Role = Role(role)

	const recomputeSQL = `
		UPDATE appusers
		SET average_user_rating = (
			SELECT AVG(score)::double precision FROM reviews WHERE recipient_id = $1
		)
		WHERE id = $1
		RETURNING average_user_rating
	`

	var average float64
	if err := tx.QueryRow(ctx, recomputeSQL, params.RecipientID).Scan(&average); err != nil {
		return Review{}, 0, fmt.Errorf("review: recompute average: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Review{}, 0, fmt.Errorf("review: commit: %w", err)
	}

	return rev, average, nil
}

// ListByRecipient returns the recipient's reviews, newest first.
func (r *PGRepository) ListByRecipient(ctx context.Context, recipientID string) ([]Review, error) {
	const query = `
		SELECT id, author_id, recipient_id, role::text, score, comment, created_at
		FROM reviews
		WHERE recipient_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("review: list: %w", err)
	}
	defer rows.Close()

	out := make([]Review, 0, 8)
	for rows.Next() {
		var (
			rev  Review
			role string
		)
		if err := rows.Scan(&rev.ID, &rev.AuthorID, &rev.RecipientID, &role, &rev.Score, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("review: scan: %w", err)
		}
		rev.Role = Role(role)
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("review: iterate: %w", err)
	}

	return out, nil
}
