package appuser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals that the appuser does not exist.
	ErrNotFound = errors.New("appuser: not found")
	// ErrDuplicateEmail signals that the email is already registered.
	ErrDuplicateEmail = errors.New("appuser: email already exists")
)

const appuserColumns = `id, email, password_hash, firstname, lastname, profile_picture_src,
	prefecture, city_ward, street_address, postal_code, account_language::text,
	english_ok, japanese_ok, is_sitter, average_user_rating, created_at, updated_at, last_login`

// Repository handles data access for appusers.
type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (Appuser, error)
	GetByID(ctx context.Context, id string) (Appuser, error)
	GetByEmail(ctx context.Context, email string) (Appuser, error)
	UpdatePartial(ctx context.Context, id string, params UpdateParams) (Appuser, error)
	StampLastLogin(ctx context.Context, id string, at time.Time) error
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed appuser repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new appuser bound to the given email and password hash.
func (r *PGRepository) Create(ctx context.Context, email, passwordHash string) (Appuser, error) {
	insertSQL := fmt.Sprintf(`
		INSERT INTO appusers (email, password_hash)
		VALUES ($1, $2)
		RETURNING %s
	`, appuserColumns)

	user, err := scanAppuser(r.pool.QueryRow(ctx, insertSQL, email, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Appuser{}, ErrDuplicateEmail
		}
		return Appuser{}, fmt.Errorf("appuser: create: %w", err)
	}

	return user, nil
}

// GetByID retrieves an appuser by primary key.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Appuser, error) {
	selectSQL := fmt.Sprintf(`SELECT %s FROM appusers WHERE id = $1`, appuserColumns)

	user, err := scanAppuser(r.pool.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appuser{}, ErrNotFound
		}
		return Appuser{}, fmt.Errorf("appuser: get by id: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves an appuser by email address.
func (r *PGRepository) GetByEmail(ctx context.Context, email string) (Appuser, error) {
	selectSQL := fmt.Sprintf(`SELECT %s FROM appusers WHERE email = $1`, appuserColumns)

	user, err := scanAppuser(r.pool.QueryRow(ctx, selectSQL, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appuser{}, ErrNotFound
		}
		return Appuser{}, fmt.Errorf("appuser: get by email: %w", err)
	}

	return user, nil
}

// UpdatePartial updates only the fields present in params and returns the
// resulting record.
func (r *PGRepository) UpdatePartial(ctx context.Context, id string, params UpdateParams) (Appuser, error) {
	sets := make([]string, 0, 12)
	args := make([]any, 0, 12)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Firstname != nil {
		add("firstname", *params.Firstname)
	}
	if params.Lastname != nil {
		add("lastname", *params.Lastname)
	}
	if params.Email != nil {
		add("email", *params.Email)
	}
	if params.ProfilePictureSrc != nil {
		add("profile_picture_src", *params.ProfilePictureSrc)
	}
	if params.Prefecture != nil {
		add("prefecture", *params.Prefecture)
	}
	if params.CityWard != nil {
		add("city_ward", *params.CityWard)
	}
	if params.StreetAddress != nil {
		add("street_address", *params.StreetAddress)
	}
	if params.PostalCode != nil {
		add("postal_code", *params.PostalCode)
	}
	if params.AccountLanguage != nil {
		args = append(args, string(*params.AccountLanguage))
		sets = append(sets, fmt.Sprintf("account_language = $%d::account_language", len(args)))
	}
	if params.EnglishOK != nil {
		add("english_ok", *params.EnglishOK)
	}
	if params.JapaneseOK != nil {
		add("japanese_ok", *params.JapaneseOK)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	updateSQL := fmt.Sprintf(`UPDATE appusers SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), appuserColumns)

	user, err := scanAppuser(r.pool.QueryRow(ctx, updateSQL, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appuser{}, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Appuser{}, ErrDuplicateEmail
		}
		return Appuser{}, fmt.Errorf("appuser: update: %w", err)
	}

	return user, nil
}

// StampLastLogin records the moment of a successful login.
func (r *PGRepository) StampLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE appusers SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("appuser: stamp last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppuser(row pgx.Row) (Appuser, error) {
	var (
		user     Appuser
		language string
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Firstname,
		&user.Lastname,
		&user.ProfilePictureSrc,
		&user.Prefecture,
		&user.CityWard,
		&user.StreetAddress,
		&user.PostalCode,
		&language,
		&user.EnglishOK,
		&user.JapaneseOK,
		&user.IsSitter,
		&user.AverageUserRating,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLogin,
	)
	if err != nil {
		return Appuser{}, err
	}

	user.AccountLanguage = Language(language)
	return user, nil
}
