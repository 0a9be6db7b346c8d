package sitter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"petsitter/appuser"
)

// ErrNotFound signals the appuser has no sitter profile.
var ErrNotFound = errors.New("sitter: profile not found")

const profileColumns = `appuser_id, profile_bio, bio_picture_src_list,
	sitter_house_ok, owner_house_ok, visit_ok,
	dogs_ok, cats_ok, fish_ok, birds_ok, rabbits_ok,
	created_at, updated_at`

// Repository handles sitter profile persistence and the matching search.
type Repository interface {
	Upsert(ctx context.Context, appuserID string, params UpsertParams) (Profile, error)
	GetByAppuserID(ctx context.Context, appuserID string) (Profile, error)
	GetExtended(ctx context.Context, appuserID string) (Extended, error)
	Search(ctx context.Context, filters SearchFilters) ([]Listing, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Upsert lazily creates the profile on first call and applies a partial update
// on subsequent ones. The owning appuser is marked as a sitter in the same
// transaction.
func (r *PGRepository) Upsert(ctx context.Context, appuserID string, params UpsertParams) (Profile, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("sitter: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO sitter_profiles (appuser_id)
		VALUES ($1)
		ON CONFLICT (appuser_id) DO NOTHING
	`, appuserID); err != nil {
		return Profile{}, fmt.Errorf("sitter: ensure profile: %w", err)
	}

	sets := make([]string, 0, 10)
	args := make([]any, 0, 11)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.ProfileBio != nil {
		add("profile_bio", *params.ProfileBio)
	}
	if params.BioPictureSrcList != nil {
		add("bio_picture_src_list", params.BioPictureSrcList)
	}
	if params.SitterHouseOK != nil {
		add("sitter_house_ok", *params.SitterHouseOK)
	}
	if params.OwnerHouseOK != nil {
		add("owner_house_ok", *params.OwnerHouseOK)
	}
	if params.VisitOK != nil {
		add("visit_ok", *params.VisitOK)
	}
	if params.DogsOK != nil {
		add("dogs_ok", *params.DogsOK)
	}
	if params.CatsOK != nil {
		add("cats_ok", *params.CatsOK)
	}
	if params.FishOK != nil {
		add("fish_ok", *params.FishOK)
	}
	if params.BirdsOK != nil {
		add("birds_ok", *params.BirdsOK)
	}
	if params.RabbitsOK != nil {
		add("rabbits_ok", *params.RabbitsOK)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, appuserID)

	updateSQL := fmt.Sprintf(`
		UPDATE sitter_profiles SET %s WHERE appuser_id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), len(args), profileColumns)

	profile, err := scanProfile(tx.QueryRow(ctx, updateSQL, args...))
	if err != nil {
		return Profile{}, fmt.Errorf("sitter: upsert profile: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE appusers SET is_sitter = true WHERE id = $1 AND NOT is_sitter`, appuserID); err != nil {
		return Profile{}, fmt.Errorf("sitter: mark appuser: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Profile{}, fmt.Errorf("sitter: commit upsert: %w", err)
	}

	return profile, nil
}

// GetByAppuserID fetches the sitter profile for an appuser.
func (r *PGRepository) GetByAppuserID(ctx context.Context, appuserID string) (Profile, error) {
	selectSQL := fmt.Sprintf(`SELECT %s FROM sitter_profiles WHERE appuser_id = $1`, profileColumns)

	profile, err := scanProfile(r.pool.QueryRow(ctx, selectSQL, appuserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("sitter: get profile: %w", err)
	}

	return profile, nil
}

// GetExtended fetches an appuser joined with its sitter profile, if any.
func (r *PGRepository) GetExtended(ctx context.Context, appuserID string) (Extended, error) {
	const query = `
		SELECT a.id, a.email, a.password_hash, a.firstname, a.lastname, a.profile_picture_src,
		       a.prefecture, a.city_ward, a.street_address, a.postal_code, a.account_language::text,
		       a.english_ok, a.japanese_ok, a.is_sitter, a.average_user_rating,
		       a.created_at, a.updated_at, a.last_login,
		       s.appuser_id, s.profile_bio, s.bio_picture_src_list,
		       s.sitter_house_ok, s.owner_house_ok, s.visit_ok,
		       s.dogs_ok, s.cats_ok, s.fish_ok, s.birds_ok, s.rabbits_ok,
		       s.created_at, s.updated_at
		FROM appusers a
		LEFT JOIN sitter_profiles s ON s.appuser_id = a.id
		WHERE a.id = $1
	`

	var (
		ext      Extended
		language string
		p        nullableProfile
	)
	err := r.pool.QueryRow(ctx, query, appuserID).Scan(
		&ext.Appuser.ID,
		&ext.Appuser.Email,
		&ext.Appuser.PasswordHash,
		&ext.Appuser.Firstname,
		&ext.Appuser.Lastname,
		&ext.Appuser.ProfilePictureSrc,
		&ext.Appuser.Prefecture,
		&ext.Appuser.CityWard,
		&ext.Appuser.StreetAddress,
		&ext.Appuser.PostalCode,
		&language,
		&ext.Appuser.EnglishOK,
		&ext.Appuser.JapaneseOK,
		&ext.Appuser.IsSitter,
		&ext.Appuser.AverageUserRating,
		&ext.Appuser.CreatedAt,
		&ext.Appuser.UpdatedAt,
		&ext.Appuser.LastLogin,
		&p.appuserID,
		&p.profileBio,
		&p.bioPictureSrcList,
		&p.sitterHouseOK,
		&p.ownerHouseOK,
		&p.visitOK,
		&p.dogsOK,
		&p.catsOK,
		&p.fishOK,
		&p.birdsOK,
		&p.rabbitsOK,
		&p.createdAt,
		&p.updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Extended{}, appuser.ErrNotFound
		}
		return Extended{}, fmt.Errorf("sitter: get extended: %w", err)
	}

	ext.Appuser.AccountLanguage = appuser.Language(language)
	ext.Profile = p.toProfile()
	return ext, nil
}

// Search filters sitter profiles by capability flags and appuser locality.
func (r *PGRepository) Search(ctx context.Context, filters SearchFilters) ([]Listing, error) {
	conds := []string{"a.prefecture = $1"}
	args := []any{filters.Prefecture}

	if filters.CityWard != "" {
		args = append(args, filters.CityWard)
		conds = append(conds, fmt.Sprintf("a.city_ward = $%d", len(args)))
	}
	flagConds := []struct {
		column string
		set    bool
	}{
		{"s.sitter_house_ok", filters.SitterHouseOK},
		{"s.owner_house_ok", filters.OwnerHouseOK},
		{"s.visit_ok", filters.VisitOK},
		{"s.dogs_ok", filters.DogsOK},
		{"s.cats_ok", filters.CatsOK},
		{"s.fish_ok", filters.FishOK},
		{"s.birds_ok", filters.BirdsOK},
		{"s.rabbits_ok", filters.RabbitsOK},
	}
	for _, fc := range flagConds {
		if fc.set {
			conds = append(conds, fc.column)
		}
	}

	query := fmt.Sprintf(`
		SELECT s.appuser_id, s.profile_bio, s.bio_picture_src_list,
		       s.sitter_house_ok, s.owner_house_ok, s.visit_ok,
		       s.dogs_ok, s.cats_ok, s.fish_ok, s.birds_ok, s.rabbits_ok,
		       s.created_at, s.updated_at,
		       a.id, a.email, a.password_hash, a.firstname, a.lastname, a.profile_picture_src,
		       a.prefecture, a.city_ward, a.street_address, a.postal_code, a.account_language::text,
		       a.english_ok, a.japanese_ok, a.is_sitter, a.average_user_rating,
		       a.created_at, a.updated_at, a.last_login
		FROM sitter_profiles s
		JOIN appusers a ON a.id = s.appuser_id
		WHERE %s
		ORDER BY a.average_user_rating DESC NULLS LAST, a.created_at
	`, strings.Join(conds, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sitter: search: %w", err)
	}
	defer rows.Close()

	listings := make([]Listing, 0, 8)
	for rows.Next() {
		var (
			l        Listing
			language string
		)
		if err := rows.Scan(
			&l.Profile.AppuserID,
			&l.Profile.ProfileBio,
			&l.Profile.BioPictureSrcList,
			&l.Profile.SitterHouseOK,
			&l.Profile.OwnerHouseOK,
			&l.Profile.VisitOK,
			&l.Profile.DogsOK,
			&l.Profile.CatsOK,
			&l.Profile.FishOK,
			&l.Profile.BirdsOK,
			&l.Profile.RabbitsOK,
			&l.Profile.CreatedAt,
			&l.Profile.UpdatedAt,
			&l.Appuser.ID,
			&l.Appuser.Email,
			&l.Appuser.PasswordHash,
			&l.Appuser.Firstname,
			&l.Appuser.Lastname,
			&l.Appuser.ProfilePictureSrc,
			&l.Appuser.Prefecture,
			&l.Appuser.CityWard,
			&l.Appuser.StreetAddress,
			&l.Appuser.PostalCode,
			&language,
			&l.Appuser.EnglishOK,
			&l.Appuser.JapaneseOK,
			&l.Appuser.IsSitter,
			&l.Appuser.AverageUserRating,
			&l.Appuser.CreatedAt,
			&l.Appuser.UpdatedAt,
			&l.Appuser.LastLogin,
		); err != nil {
			return nil, fmt.Errorf("sitter: scan listing: %w", err)
		}
		l.Appuser.AccountLanguage = appuser.Language(language)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sitter: iterate listings: %w", err)
	}

	return listings, nil
}

type nullableProfile struct {
	appuserID         *string
	profileBio        *string
	bioPictureSrcList []string
	sitterHouseOK     *bool
	ownerHouseOK      *bool
	visitOK           *bool
	dogsOK            *bool
	catsOK            *bool
	fishOK            *bool
	birdsOK           *bool
	rabbitsOK         *bool
	createdAt         *time.Time
	updatedAt         *time.Time
}

func (p nullableProfile) toProfile() *Profile {
	if p.appuserID == nil {
		return nil
	}
	return &Profile{
		AppuserID:         *p.appuserID,
		ProfileBio:        p.profileBio,
		BioPictureSrcList: p.bioPictureSrcList,
		SitterHouseOK:     *p.sitterHouseOK,
		OwnerHouseOK:      *p.ownerHouseOK,
		VisitOK:           *p.visitOK,
		DogsOK:            *p.dogsOK,
		CatsOK:            *p.catsOK,
		FishOK:            *p.fishOK,
		BirdsOK:           *p.birdsOK,
		RabbitsOK:         *p.rabbitsOK,
		CreatedAt:         *p.createdAt,
		UpdatedAt:         *p.updatedAt,
	}
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.AppuserID,
		&p.ProfileBio,
		&p.BioPictureSrcList,
		&p.SitterHouseOK,
		&p.OwnerHouseOK,
		&p.VisitOK,
		&p.DogsOK,
		&p.CatsOK,
		&p.FishOK,
		&p.BirdsOK,
		&p.RabbitsOK,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
