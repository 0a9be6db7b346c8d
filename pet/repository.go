package pet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the pet does not exist.
var ErrNotFound = errors.New("pet: not found")

const petColumns = `id, owner_id, name, species::text, subtype, gender::text, weight, birthday,
	known_allergies, medications, special_needs, profile_bio, profile_picture_src,
	created_at, updated_at`

// Repository handles pet persistence.
type Repository interface {
	Create(ctx context.Context, ownerID string, params CreateParams) (Pet, error)
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	UpdatePartial(ctx context.Context, id string, params UpdateParams) (Pet, error)
	Delete(ctx context.Context, id string) error
	CountOwnedBy(ctx context.Context, ownerID string, petIDs []string) (int, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a pet owned by ownerID.
func (r *PGRepository) Create(ctx context.Context, ownerID string, params CreateParams) (Pet, error) {
	insertSQL := fmt.Sprintf(`
		INSERT INTO pets (owner_id, name, species, subtype, gender, weight, birthday,
			known_allergies, medications, special_needs, profile_bio, profile_picture_src)
		VALUES ($1, $2, $3::animal_species, $4, $5::pet_gender, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s
	`, petColumns)

	var gender *string
	if params.Gender != nil {
		g := string(*params.Gender)
		gender = &g
	}

	p, err := scanPet(r.pool.QueryRow(ctx, insertSQL,
		ownerID,
		params.Name,
		string(params.Species),
		params.Subtype,
		gender,
		params.Weight,
		params.Birthday,
		params.KnownAllergies,
		params.Medications,
		params.SpecialNeeds,
		params.ProfileBio,
		params.ProfilePictureSrc,
	))
	if err != nil {
		return Pet{}, fmt.Errorf("pet: create: %w", err)
	}

	return p, nil
}

// GetByID fetches a pet by primary key.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Pet, error) {
	selectSQL := fmt.Sprintf(`SELECT %s FROM pets WHERE id = $1`, petColumns)

	p, err := scanPet(r.pool.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, fmt.Errorf("pet: get by id: %w", err)
	}

	return p, nil
}

// ListByOwner returns all pets of an owner in stable creation order.
func (r *PGRepository) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	selectSQL := fmt.Sprintf(`SELECT %s FROM pets WHERE owner_id = $1 ORDER BY created_at, id`, petColumns)

	rows, err := r.pool.Query(ctx, selectSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pet: list by owner: %w", err)
	}
	defer rows.Close()

	pets := make([]Pet, 0, 4)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("pet: scan: %w", err)
		}
		pets = append(pets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pet: iterate: %w", err)
	}

	return pets, nil
}

// UpdatePartial updates only the fields present in params.
func (r *PGRepository) UpdatePartial(ctx context.Context, id string, params UpdateParams) (Pet, error) {
	sets := make([]string, 0, 11)
	args := make([]any, 0, 12)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		add("name", *params.Name)
	}
	if params.Species != nil {
		args = append(args, string(*params.Species))
		sets = append(sets, fmt.Sprintf("species = $%d::animal_species", len(args)))
	}
	if params.Subtype != nil {
		add("subtype", *params.Subtype)
	}
	if params.Gender != nil {
		args = append(args, string(*params.Gender))
		sets = append(sets, fmt.Sprintf("gender = $%d::pet_gender", len(args)))
	}
	if params.Weight != nil {
		add("weight", *params.Weight)
	}
	if params.Birthday != nil {
		add("birthday", *params.Birthday)
	}
	if params.KnownAllergies != nil {
		add("known_allergies", *params.KnownAllergies)
	}
	if params.Medications != nil {
		add("medications", *params.Medications)
	}
	if params.SpecialNeeds != nil {
		add("special_needs", *params.SpecialNeeds)
	}
	if params.ProfileBio != nil {
		add("profile_bio", *params.ProfileBio)
	}
	if params.ProfilePictureSrc != nil {
		add("profile_picture_src", *params.ProfilePictureSrc)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	updateSQL := fmt.Sprintf(`UPDATE pets SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), petColumns)

	p, err := scanPet(r.pool.QueryRow(ctx, updateSQL, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, fmt.Errorf("pet: update: %w", err)
	}

	return p, nil
}

// Delete removes a pet row.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pet: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountOwnedBy reports how many of the given pet ids belong to ownerID.
func (r *PGRepository) CountOwnedBy(ctx context.Context, ownerID string, petIDs []string) (int, error) {
	if len(petIDs) == 0 {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM pets WHERE owner_id = $1 AND id = ANY($2)`,
		ownerID, petIDs,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pet: count owned: %w", err)
	}

	return count, nil
}

func scanPet(row pgx.Row) (Pet, error) {
	var (
		p       Pet
		species string
		gender  *string
	)
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&species,
		&p.Subtype,
		&gender,
		&p.Weight,
		&p.Birthday,
		&p.KnownAllergies,
		&p.Medications,
		&p.SpecialNeeds,
		&p.ProfileBio,
		&p.ProfilePictureSrc,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Pet{}, err
	}

	p.Species = Species(species)
	if gender != nil {
		g := Gender(*gender)
		p.Gender = &g
	}
	return p, nil
}
