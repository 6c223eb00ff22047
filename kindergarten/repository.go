package kindergarten

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested facility row does not exist.
var ErrNotFound = errors.New("kindergarten: not found")

const columns = `id, user_id, facility_name, homepage_url, business_email, address_full, address_sido, address_sigungu, address_detail, region_id, phone, profile_image_url, introduction, created_at, updated_at`

// Repository provides data access for kindergarten role rows.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts the facility row within the caller's transaction, so
// sign-up can roll the profile and role rows back together.
func (r *Repository) Create(ctx context.Context, tx pgx.Tx, params CreateParams) (Kindergarten, error) {
	const query = `
		INSERT INTO kindergartens (user_id, facility_name, homepage_url, business_email, address_full,
			address_sido, address_sigungu, address_detail, region_id, phone, profile_image_url, introduction)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + columns

	row := tx.QueryRow(ctx, query,
		params.UserID,
		params.FacilityName,
		params.HomepageURL,
		params.BusinessEmail,
		params.AddressFull,
		params.AddressSido,
		params.AddressSigungu,
		params.AddressDetail,
		params.RegionID,
		params.Phone,
		params.ProfileImageURL,
		params.Introduction,
	)

	kg, err := scan(row)
	if err != nil {
		return Kindergarten{}, fmt.Errorf("kindergarten: create: %w", err)
	}
	return kg, nil
}

// GetByUserID fetches the facility row linked to a profile.
func (r *Repository) GetByUserID(ctx context.Context, userID string) (Kindergarten, error) {
	const query = `SELECT ` + columns + ` FROM kindergartens WHERE user_id = $1`

	kg, err := scan(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Kindergarten{}, ErrNotFound
		}
		return Kindergarten{}, fmt.Errorf("kindergarten: query by user id: %w", err)
	}
	return kg, nil
}

// GetByID fetches a facility row by its primary key.
func (r *Repository) GetByID(ctx context.Context, id string) (Kindergarten, error) {
	const query = `SELECT ` + columns + ` FROM kindergartens WHERE id = $1`

	kg, err := scan(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Kindergarten{}, ErrNotFound
		}
		return Kindergarten{}, fmt.Errorf("kindergarten: query by id: %w", err)
	}
	return kg, nil
}

// Update applies the non-nil fields and returns the updated row.
func (r *Repository) Update(ctx context.Context, id string, params UpdateParams) (Kindergarten, error) {
	const query = `
		UPDATE kindergartens SET
			facility_name = COALESCE($2, facility_name),
			homepage_url = COALESCE($3, homepage_url),
			business_email = COALESCE($4, business_email),
			address_full = COALESCE($5, address_full),
			address_sido = COALESCE($6, address_sido),
			address_sigungu = COALESCE($7, address_sigungu),
			address_detail = COALESCE($8, address_detail),
			region_id = COALESCE($9::uuid, region_id),
			phone = COALESCE($10, phone),
			profile_image_url = COALESCE($11, profile_image_url),
			introduction = COALESCE($12, introduction),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + columns

	row := r.pool.QueryRow(ctx, query, id,
		params.FacilityName,
		params.HomepageURL,
		params.BusinessEmail,
		params.AddressFull,
		params.AddressSido,
		params.AddressSigungu,
		params.AddressDetail,
		params.RegionID,
		params.Phone,
		params.ProfileImageURL,
		params.Introduction,
	)

	kg, err := scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Kindergarten{}, ErrNotFound
		}
		return Kindergarten{}, fmt.Errorf("kindergarten: update: %w", err)
	}
	return kg, nil
}

func scan(row pgx.Row) (Kindergarten, error) {
	var kg Kindergarten
	err := row.Scan(
		&kg.ID,
		&kg.UserID,
		&kg.FacilityName,
		&kg.HomepageURL,
		&kg.BusinessEmail,
		&kg.AddressFull,
		&kg.AddressSido,
		&kg.AddressSigungu,
		&kg.AddressDetail,
		&kg.RegionID,
		&kg.Phone,
		&kg.ProfileImageURL,
		&kg.Introduction,
		&kg.CreatedAt,
		&kg.UpdatedAt,
	)
	if err != nil {
		return Kindergarten{}, err
	}
	return kg, nil
}
