package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the availability row does not exist.
	ErrNotFound = errors.New("availability: not found")
	// ErrDuplicateDate signals the appuser already declared that date.
	ErrDuplicateDate = errors.New("availability: date already declared")
)

// Repository handles availability persistence.
type Repository interface {
	Insert(ctx context.Context, appuserID string, date time.Time) (Availability, error)
	ListByAppuser(ctx context.Context, appuserID string) ([]Availability, error)
	GetByID(ctx context.Context, id string) (Availability, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert declares a date as available.
func (r *PGRepository) Insert(ctx context.Context, appuserID string, date time.Time) (Availability, error) {
	const insertSQL = `
		INSERT INTO availabilities (appuser_id, date)
		VALUES ($1, $2)
		RETURNING id, appuser_id, date, created_at
	`

	var a Availability
	err := r.pool.QueryRow(ctx, insertSQL, appuserID, date).Scan(&a.ID, &a.AppuserID, &a.Date, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Availability{}, ErrDuplicateDate
		}
		return Availability{}, fmt.Errorf("availability: insert: %w", err)
	}

	return a, nil
}

// ListByAppuser returns an appuser's declared dates in date order.
func (r *PGRepository) ListByAppuser(ctx context.Context, appuserID string) ([]Availability, error) {
	const query = `
		SELECT id, appuser_id, date, created_at
		FROM availabilities
		WHERE appuser_id = $1
		ORDER BY date
	`

	rows, err := r.pool.Query(ctx, query, appuserID)
	if err != nil {
		return nil, fmt.Errorf("availability: list: %w", err)
	}
	defer rows.Close()

	out := make([]Availability, 0, 8)
	for rows.Next() {
		var a Availability
		if err := rows.Scan(&a.ID, &a.AppuserID, &a.Date, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("availability: scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("availability: iterate: %w", err)
	}

	return out, nil
}

// GetByID fetches a single availability row.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Availability, error) {
	const query = `SELECT id, appuser_id, date, created_at FROM availabilities WHERE id = $1`

	var a Availability
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.AppuserID, &a.Date, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Availability{}, ErrNotFound
		}
		return Availability{}, fmt.Errorf("availability: get by id: %w", err)
	}

	return a, nil
}

// Delete removes an availability row.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM availabilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("availability: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
