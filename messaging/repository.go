package messaging

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles the append-only message history.
type Repository interface {
	Insert(ctx context.Context, inquiryID, authorID, recipientID, content string) (Message, error)
	ListByInquiry(ctx context.Context, inquiryID string) ([]Message, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert appends a message to the inquiry's history.
func (r *PGRepository) Insert(ctx context.Context, inquiryID, authorID, recipientID, content string) (Message, error) {
	const insertSQL = `
		INSERT INTO messages (inquiry_id, author_id, recipient_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, inquiry_id, author_id, recipient_id, content, sent_at
	`

	var m Message
	err := r.pool.QueryRow(ctx, insertSQL, inquiryID, authorID, recipientID, content).
		Scan(&m.ID, &m.InquiryID, &m.AuthorID, &m.RecipientID, &m.Content, &m.SentAt)
	if err != nil {
		return Message{}, fmt.Errorf("messaging: insert: %w", err)
	}

	return m, nil
}

// ListByInquiry returns the inquiry's messages in storage order. No messages
// yields an empty slice, not an error.
func (r *PGRepository) ListByInquiry(ctx context.Context, inquiryID string) ([]Message, error) {
	const query = `
		SELECT id, inquiry_id, author_id, recipient_id, content, sent_at
		FROM messages
		WHERE inquiry_id = $1
		ORDER BY sent_at, id
	`

	rows, err := r.pool.Query(ctx, query, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("messaging: list: %w", err)
	}
	defer rows.Close()

	out := make([]Message, 0, 16)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.InquiryID, &m.AuthorID, &m.RecipientID, &m.Content, &m.SentAt); err != nil {
			return nil, fmt.Errorf("messaging: scan: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("messaging: iterate: %w", err)
	}

	return out, nil
}
