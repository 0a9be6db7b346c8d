package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the inquiry does not exist.
	ErrNotFound = errors.New("inquiry: not found")
	// ErrAlreadyFinalized signals the inquiry already left the requested state.
	ErrAlreadyFinalized = errors.New("inquiry: already finalized")
)

const inquiryColumns = `i.id, i.owner_id, i.sitter_id, i.status::text, i.start_date, i.end_date,
	i.desired_service::text, i.additional_info, i.created_at, i.updated_at, i.finalized_at`

// Repository handles inquiry persistence.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Inquiry, error)
	GetByID(ctx context.Context, id string) (Inquiry, error)
	ListForUser(ctx context.Context, appuserID string) ([]Inquiry, error)
	Finalize(ctx context.Context, id string, target Status) (Inquiry, error)
	UpdateContent(ctx context.Context, id string, params ContentUpdateParams) (Inquiry, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts the inquiry in requested state together with its attached-pet
// join rows, in one transaction.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Inquiry, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	insertSQL := fmt.Sprintf(`
		INSERT INTO inquiries AS i (owner_id, sitter_id, start_date, end_date, desired_service, additional_info)
		VALUES ($1, $2, $3, $4, $5::service_kind, $6)
		RETURNING %s
	`, inquiryColumns)

	inq, err := scanInquiry(tx.QueryRow(ctx, insertSQL,
		params.OwnerID,
		params.SitterID,
		params.StartDate,
		params.EndDate,
		string(params.DesiredService),
		params.AdditionalInfo,
	))
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: insert: %w", err)
	}

	if err := insertPetRows(ctx, tx, inq.ID, params.PetIDs); err != nil {
		return Inquiry{}, err
	}
	inq.PetIDs = append([]string(nil), params.PetIDs...)

	if err := tx.Commit(ctx); err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: commit: %w", err)
	}

	return inq, nil
}

// GetByID fetches an inquiry with its attached pet ids.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Inquiry, error) {
	query := fmt.Sprintf(`SELECT %s FROM inquiries i WHERE i.id = $1`, inquiryColumns)

	inq, err := scanInquiry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, ErrNotFound
		}
		return Inquiry{}, fmt.Errorf("inquiry: get by id: %w", err)
	}

	inq.PetIDs, err = r.listPetIDs(ctx, id)
	if err != nil {
		return Inquiry{}, err
	}

	return inq, nil
}

// ListForUser returns inquiries where the appuser is either party, newest first.
func (r *PGRepository) ListForUser(ctx context.Context, appuserID string) ([]Inquiry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM inquiries i
		WHERE i.owner_id = $1 OR i.sitter_id = $1
		ORDER BY i.created_at DESC
	`, inquiryColumns)

	rows, err := r.pool.Query(ctx, query, appuserID)
	if err != nil {
		return nil, fmt.Errorf("inquiry: list for user: %w", err)
	}
	defer rows.Close()

	out := make([]Inquiry, 0, 8)
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("inquiry: scan: %w", err)
		}
		out = append(out, inq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inquiry: iterate: %w", err)
	}

	for idx := range out {
		out[idx].PetIDs, err = r.listPetIDs(ctx, out[idx].ID)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Finalize moves the inquiry out of requested exactly once. The update is
// conditional on the current status so two concurrent finalizations cannot
// both win; the loser observes the already-finalized row and gets a conflict.
func (r *PGRepository) Finalize(ctx context.Context, id string, target Status) (Inquiry, error) {
	updateSQL := fmt.Sprintf(`
		UPDATE inquiries AS i
		SET status = $2::inquiry_status,
		    finalized_at = now(),
		    updated_at = now()
		WHERE i.id = $1 AND i.status = 'requested'
		RETURNING %s
	`, inquiryColumns)

	inq, err := scanInquiry(r.pool.QueryRow(ctx, updateSQL, id, string(target)))
	if err == nil {
		inq.PetIDs, err = r.listPetIDs(ctx, id)
		if err != nil {
			return Inquiry{}, err
		}
		return inq, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Inquiry{}, fmt.Errorf("inquiry: finalize: %w", err)
	}

	// No row matched: either the inquiry is gone or it was already finalized.
	if _, err := r.GetByID(ctx, id); err != nil {
		return Inquiry{}, err
	}
	return Inquiry{}, ErrAlreadyFinalized
}

// UpdateContent updates only the fields present in params, replacing the
// attached pet set when one is provided. The update is conditional on the
// inquiry still being in requested state, so an edit racing a finalization
// cannot land on a finalized row.
func (r *PGRepository) UpdateContent(ctx context.Context, id string, params ContentUpdateParams) (Inquiry, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.StartDate != nil {
		add("start_date", *params.StartDate)
	}
	if params.EndDate != nil {
		add("end_date", *params.EndDate)
	}
	if params.DesiredService != nil {
		args = append(args, string(*params.DesiredService))
		sets = append(sets, fmt.Sprintf("desired_service = $%d::service_kind", len(args)))
	}
	if params.AdditionalInfo != nil {
		add("additional_info", *params.AdditionalInfo)
	}

	var inq Inquiry
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		args = append(args, id)

		updateSQL := fmt.Sprintf(`UPDATE inquiries AS i SET %s WHERE i.id = $%d AND i.status = 'requested' RETURNING %s`,
			strings.Join(sets, ", "), len(args), inquiryColumns)

		inq, err = scanInquiry(tx.QueryRow(ctx, updateSQL, args...))
	} else {
		query := fmt.Sprintf(`SELECT %s FROM inquiries i WHERE i.id = $1 AND i.status = 'requested' FOR UPDATE`, inquiryColumns)
		inq, err = scanInquiry(tx.QueryRow(ctx, query, id))
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row matched: either the inquiry is gone or it was finalized
			// between the service's status check and this update.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return Inquiry{}, getErr
			}
			return Inquiry{}, ErrAlreadyFinalized
		}
		return Inquiry{}, fmt.Errorf("inquiry: update content: %w", err)
	}

	if params.PetIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM inquiry_pets WHERE inquiry_id = $1`, id); err != nil {
			return Inquiry{}, fmt.Errorf("inquiry: clear pets: %w", err)
		}
		if err := insertPetRows(ctx, tx, id, params.PetIDs); err != nil {
			return Inquiry{}, err
		}
		inq.PetIDs = append([]string(nil), params.PetIDs...)
	}

	if err := tx.Commit(ctx); err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: commit content update: %w", err)
	}

	if params.PetIDs == nil {
		inq.PetIDs, err = r.listPetIDs(ctx, id)
		if err != nil {
			return Inquiry{}, err
		}
	}

	return inq, nil
}

func (r *PGRepository) listPetIDs(ctx context.Context, inquiryID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT pet_id FROM inquiry_pets WHERE inquiry_id = $1 ORDER BY pet_id`, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("inquiry: list pet ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, 4)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("inquiry: scan pet id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inquiry: iterate pet ids: %w", err)
	}

	return ids, nil
}

func insertPetRows(ctx context.Context, tx pgx.Tx, inquiryID string, petIDs []string) error {
	for _, petID := range petIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO inquiry_pets (inquiry_id, pet_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			inquiryID, petID,
		); err != nil {
			return fmt.Errorf("inquiry: attach pet %s: %w", petID, err)
		}
	}
	return nil
}

func scanInquiry(row pgx.Row) (Inquiry, error) {
	var (
		inq     Inquiry
		status  string
		service string
	)
	err := row.Scan(
		&inq.ID,
		&inq.OwnerID,
		&inq.SitterID,
		&status,
		&inq.StartDate,
		&inq.EndDate,
		&service,
		&inq.AdditionalInfo,
		&inq.CreatedAt,
		&inq.UpdatedAt,
		&inq.FinalizedAt,
	)
	if err != nil {
		return Inquiry{}, err
	}

	inq.Status = Status(status)
	inq.DesiredService = ServiceKind(service)
	return inq, nil
}
