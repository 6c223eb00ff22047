package resume

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the requested resume does not exist.
	ErrNotFound = errors.New("resume: not found")
	// ErrNoPrimary signals the seeker has no primary resume.
	ErrNoPrimary = errors.New("resume: no primary resume")
)

const columns = `id, job_seeker_id, title, is_primary, full_name, phone, email, address_full,
	profile_image_url, desired_facility_type, desired_job_category_id, desired_salary_min,
	desired_salary_max, desired_salary_negotiable, desired_regions, content_html, view_count,
	created_at, updated_at`

// Repository handles data access for resumes. Primary-flag writes take
// a transaction so clear-then-set commits atomically.
type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, params CreateParams) (Resume, error)
	GetByID(ctx context.Context, id string) (Resume, error)
	ListByJobSeeker(ctx context.Context, jobSeekerID string) ([]Resume, error)
	GetPrimary(ctx context.Context, jobSeekerID string) (Resume, error)
	Update(ctx context.Context, id string, params UpdateParams) (Resume, error)
	ClearPrimary(ctx context.Context, tx pgx.Tx, jobSeekerID string) error
	MarkPrimary(ctx context.Context, tx pgx.Tx, id string) (Resume, error)
	IncrementViewCount(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, tx pgx.Tx, params CreateParams) (Resume, error) {
	const query = `
		INSERT INTO resumes (job_seeker_id, title, is_primary, full_name, phone, email, address_full,
			profile_image_url, desired_facility_type, desired_job_category_id, desired_salary_min,
			desired_salary_max, desired_salary_negotiable, desired_regions, content_html)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + columns

	row := tx.QueryRow(ctx, query,
		params.JobSeekerID, params.Title, params.IsPrimary, params.FullName, params.Phone,
		params.Email, params.AddressFull, params.ProfileImageURL, params.DesiredFacilityType,
		params.DesiredJobCategoryID, params.DesiredSalaryMin, params.DesiredSalaryMax,
		params.DesiredSalaryNegotiable, params.DesiredRegions, params.ContentHTML,
	)

	res, err := scanResume(row)
	if err != nil {
		return Resume{}, fmt.Errorf("resume: create: %w", err)
	}
	return res, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `SELECT ` + columns + ` FROM resumes WHERE id = $1`

	res, err := scanResume(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, fmt.Errorf("resume: query by id: %w", err)
	}
	return res, nil
}

func (r *PGRepository) ListByJobSeeker(ctx context.Context, jobSeekerID string) ([]Resume, error) {
	const query = `SELECT ` + columns + ` FROM resumes WHERE job_seeker_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, jobSeekerID)
	if err != nil {
		return nil, fmt.Errorf("resume: list: %w", err)
	}
	defer rows.Close()

	list := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("resume: scan: %w", err)
		}
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resume: iterate: %w", err)
	}
	return list, nil
}

func (r *PGRepository) GetPrimary(ctx context.Context, jobSeekerID string) (Resume, error) {
	const query = `SELECT ` + columns + ` FROM resumes WHERE job_seeker_id = $1 AND is_primary`

	res, err := scanResume(r.pool.QueryRow(ctx, query, jobSeekerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resume{}, ErrNoPrimary
		}
		return Resume{}, fmt.Errorf("resume: query primary: %w", err)
	}
	return res, nil
}

func (r *PGRepository) Update(ctx context.Context, id string, params UpdateParams) (Resume, error) {
	const query = `
		UPDATE resumes SET
			title = COALESCE($2, title),
			full_name = COALESCE($3, full_name),
			phone = COALESCE($4, phone),
			email = COALESCE($5, email),
			address_full = COALESCE($6, address_full),
			profile_image_url = COALESCE($7, profile_image_url),
			desired_facility_type = COALESCE($8, desired_facility_type),
			desired_job_category_id = COALESCE($9::uuid, desired_job_category_id),
			desired_salary_min = COALESCE($10, desired_salary_min),
			desired_salary_max = COALESCE($11, desired_salary_max),
			desired_salary_negotiable = COALESCE($12, desired_salary_negotiable),
			desired_regions = COALESCE($13, desired_regions),
			content_html = COALESCE($14, content_html),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + columns

	row := r.pool.QueryRow(ctx, query, id,
		params.Title, params.FullName, params.Phone, params.Email, params.AddressFull,
		params.ProfileImageURL, params.DesiredFacilityType, params.DesiredJobCategoryID,
		params.DesiredSalaryMin, params.DesiredSalaryMax, params.DesiredSalaryNegotiable,
		params.DesiredRegions, params.ContentHTML,
	)

	res, err := scanResume(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, fmt.Errorf("resume: update: %w", err)
	}
	return res, nil
}

// ClearPrimary unsets every primary flag for the seeker inside the
// caller's transaction.
func (r *PGRepository) ClearPrimary(ctx context.Context, tx pgx.Tx, jobSeekerID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE resumes SET is_primary = false, updated_at = now()
		WHERE job_seeker_id = $1 AND is_primary
	`, jobSeekerID)
	if err != nil {
		return fmt.Errorf("resume: clear primary: %w", err)
	}
	return nil
}

// MarkPrimary sets the flag on one resume inside the caller's
// transaction.
func (r *PGRepository) MarkPrimary(ctx context.Context, tx pgx.Tx, id string) (Resume, error) {
	const query = `
		UPDATE resumes SET is_primary = true, updated_at = now() WHERE id = $1
		RETURNING ` + columns

	res, err := scanResume(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, fmt.Errorf("resume: mark primary: %w", err)
	}
	return res, nil
}

// IncrementViewCount bumps the counter in a single statement.
func (r *PGRepository) IncrementViewCount(ctx context.Context, id string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		UPDATE resumes SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count
	`, id).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("resume: increment view count: %w", err)
	}
	return count, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("resume: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanResume(row pgx.Row) (Resume, error) {
	var res Resume
	err := row.Scan(
		&res.ID,
		&res.JobSeekerID,
		&res.Title,
		&res.IsPrimary,
		&res.FullName,
		&res.Phone,
		&res.Email,
		&res.AddressFull,
		&res.ProfileImageURL,
		&res.DesiredFacilityType,
		&res.DesiredJobCategoryID,
		&res.DesiredSalaryMin,
		&res.DesiredSalaryMax,
		&res.DesiredSalaryNegotiable,
		&res.DesiredRegions,
		&res.ContentHTML,
		&res.ViewCount,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	return res, nil
}
