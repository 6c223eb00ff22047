package jobseeker

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested seeker row does not exist.
var ErrNotFound = errors.New("jobseeker: not found")

const columns = `id, user_id, full_name, phone, email, address_full, address_sido, address_sigungu, address_detail, region_id, profile_image_url, final_education, introduction, created_at, updated_at`

// Repository provides data access for job seeker role rows.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts the seeker row within the caller's transaction, so
// sign-up can roll the profile and role rows back together.
func (r *Repository) Create(ctx context.Context, tx pgx.Tx, params CreateParams) (JobSeeker, error) {
	const query = `
		INSERT INTO job_seekers (user_id, full_name, phone, email, address_full, address_sido,
			address_sigungu, address_detail, region_id, profile_image_url, final_education, introduction)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + columns

	row := tx.QueryRow(ctx, query,
		params.UserID,
		params.FullName,
		params.Phone,
		params.Email,
		params.AddressFull,
		params.AddressSido,
		params.AddressSigungu,
		params.AddressDetail,
		params.RegionID,
		params.ProfileImageURL,
		params.FinalEducation,
		params.Introduction,
	)

	js, err := scan(row)
	if err != nil {
		return JobSeeker{}, fmt.Errorf("jobseeker: create: %w", err)
	}
	return js, nil
}

// GetByUserID fetches the seeker row linked to a profile.
func (r *Repository) GetByUserID(ctx context.Context, userID string) (JobSeeker, error) {
	const query = `SELECT ` + columns + ` FROM job_seekers WHERE user_id = $1`

	js, err := scan(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JobSeeker{}, ErrNotFound
		}
		return JobSeeker{}, fmt.Errorf("jobseeker: query by user id: %w", err)
	}
	return js, nil
}

// GetByID fetches a seeker row by its primary key.
func (r *Repository) GetByID(ctx context.Context, id string) (JobSeeker, error) {
	const query = `SELECT ` + columns + ` FROM job_seekers WHERE id = $1`

	js, err := scan(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JobSeeker{}, ErrNotFound
		}
		return JobSeeker{}, fmt.Errorf("jobseeker: query by id: %w", err)
	}
	return js, nil
}

// Update applies the non-nil fields and returns the updated row.
func (r *Repository) Update(ctx context.Context, id string, params UpdateParams) (JobSeeker, error) {
	const query = `
		UPDATE job_seekers SET
			full_name = COALESCE($2, full_name),
			phone = COALESCE($3, phone),
			email = COALESCE($4, email),
			address_full = COALESCE($5, address_full),
			address_sido = COALESCE($6, address_sido),
			address_sigungu = COALESCE($7, address_sigungu),
			address_detail = COALESCE($8, address_detail),
			region_id = COALESCE($9::uuid, region_id),
			profile_image_url = COALESCE($10, profile_image_url),
			final_education = COALESCE($11, final_education),
			introduction = COALESCE($12, introduction),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + columns

	row := r.pool.QueryRow(ctx, query, id,
		params.FullName,
		params.Phone,
		params.Email,
		params.AddressFull,
		params.AddressSido,
		params.AddressSigungu,
		params.AddressDetail,
		params.RegionID,
		params.ProfileImageURL,
		params.FinalEducation,
		params.Introduction,
	)

	js, err := scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JobSeeker{}, ErrNotFound
		}
		return JobSeeker{}, fmt.Errorf("jobseeker: update: %w", err)
	}
	return js, nil
}

func scan(row pgx.Row) (JobSeeker, error) {
	var js JobSeeker
	err := row.Scan(
		&js.ID,
		&js.UserID,
		&js.FullName,
		&js.Phone,
		&js.Email,
		&js.AddressFull,
		&js.AddressSido,
		&js.AddressSigungu,
		&js.AddressDetail,
		&js.RegionID,
		&js.ProfileImageURL,
		&js.FinalEducation,
		&js.Introduction,
		&js.CreatedAt,
		&js.UpdatedAt,
	)
	if err != nil {
		return JobSeeker{}, err
	}
	return js, nil
}
