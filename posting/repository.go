package posting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested posting does not exist.
var ErrNotFound = errors.New("posting: not found")

const columns = `id, kindergarten_id, title, status, facility_name, contact_email, contact_phone,
	address_full, address_sido, address_sigungu, region_id, job_category_id, employment_type,
	salary_type, salary_min, salary_max, salary_negotiable, career_level, deadline_date,
	content_html, view_count, application_count, is_recommended, is_featured,
	hidden_reason, hidden_at, hidden_by, created_at, updated_at`

// Repository handles data access for job postings.
type Repository interface {
	Create(ctx context.Context, p Posting) (Posting, error)
	GetByID(ctx context.Context, id string) (Posting, error)
	List(ctx context.Context, filters Filters) ([]Posting, int, error)
	Update(ctx context.Context, id string, params UpdateParams) (Posting, error)
	UpdateStatus(ctx context.Context, id string, status Status, hiddenReason, actorID *string) (Posting, error)
	IncrementViewCount(ctx context.Context, id string) (int, error)
	IncrementApplicationCount(ctx context.Context, tx pgx.Tx, id string) error
	Delete(ctx context.Context, id string) error
}

// UpdateParams carries the mutable posting fields. Nil leaves a column
// unchanged.
type UpdateParams struct {
	Title            *string
	ContactEmail     *string
	ContactPhone     *string
	AddressFull      *string
	AddressSido      *string
	AddressSigungu   *string
	RegionID         *string
	JobCategoryID    *string
	EmploymentType   *EmploymentType
	SalaryType       *string
	SalaryMin        *int64
	SalaryMax        *int64
	SalaryNegotiable *bool
	CareerLevel      *CareerLevel
	DeadlineDate     *time.Time
	ContentHTML      *string
	IsRecommended    *bool
	IsFeatured       *bool
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, p Posting) (Posting, error) {
	const query = `
		INSERT INTO job_postings (id, kindergarten_id, title, status, facility_name, contact_email,
			contact_phone, address_full, address_sido, address_sigungu, region_id, job_category_id,
			employment_type, salary_type, salary_min, salary_max, salary_negotiable, career_level,
			deadline_date, content_html, is_recommended, is_featured)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING ` + columns

	row := r.pool.QueryRow(ctx, query,
		p.ID, p.KindergartenID, p.Title, p.Status, p.FacilityName, p.ContactEmail, p.ContactPhone,
		p.AddressFull, p.AddressSido, p.AddressSigungu, p.RegionID, p.JobCategoryID,
		p.EmploymentType, p.SalaryType, p.SalaryMin, p.SalaryMax, p.SalaryNegotiable, p.CareerLevel,
		p.DeadlineDate, p.ContentHTML, p.IsRecommended, p.IsFeatured,
	)

	created, err := scanPosting(row)
	if err != nil {
		return Posting{}, fmt.Errorf("posting: create: %w", err)
	}
	return created, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Posting, error) {
	const query = `SELECT ` + columns + ` FROM job_postings WHERE id = $1`

	p, err := scanPosting(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Posting{}, ErrNotFound
		}
		return Posting{}, fmt.Errorf("posting: query by id: %w", err)
	}
	return p, nil
}

func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Posting, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	where := []string{"1=1"}
	args := []any{}

	if filters.KindergartenID != "" {
		where = append(where, fmt.Sprintf("kindergarten_id=$%d", len(args)+1))
		args = append(args, filters.KindergartenID)
	}
	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status=$%d", len(args)+1))
		args = append(args, filters.Status)
	}
	if filters.RegionID != "" {
		where = append(where, fmt.Sprintf("region_id=$%d", len(args)+1))
		args = append(args, filters.RegionID)
	}
	if filters.JobCategoryID != "" {
		where = append(where, fmt.Sprintf("job_category_id=$%d", len(args)+1))
		args = append(args, filters.JobCategoryID)
	}
	if filters.Sido != "" {
		where = append(where, fmt.Sprintf("address_sido=$%d", len(args)+1))
		args = append(args, filters.Sido)
	}
	if filters.Sigungu != "" {
		where = append(where, fmt.Sprintf("address_sigungu=$%d", len(args)+1))
		args = append(args, filters.Sigungu)
	}
	if filters.IsRecommended != nil {
		where = append(where, fmt.Sprintf("is_recommended=$%d", len(args)+1))
		args = append(args, *filters.IsRecommended)
	}
	if filters.IsFeatured != nil {
		where = append(where, fmt.Sprintf("is_featured=$%d", len(args)+1))
		args = append(args, *filters.IsFeatured)
	}

	whereClause := " WHERE " + strings.Join(where, " AND ")

	sortKey := mapSortKey(filters.SortKey)
	sortOrder := strings.ToUpper(filters.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	limit := filters.PageSize
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`SELECT %s FROM job_postings%s ORDER BY %s %s LIMIT %d OFFSET %d`,
		columns, whereClause, sortKey, sortOrder, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("posting: query list: %w", err)
	}
	defer rows.Close()

	list := []Posting{}
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("posting: scan: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("posting: iterate: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM job_postings%s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("posting: count: %w", err)
	}

	return list, total, nil
}

func (r *PGRepository) Update(ctx context.Context, id string, params UpdateParams) (Posting, error) {
	const query = `
		UPDATE job_postings SET
			title = COALESCE($2, title),
			contact_email = COALESCE($3, contact_email),
			contact_phone = COALESCE($4, contact_phone),
			address_full = COALESCE($5, address_full),
			address_sido = COALESCE($6, address_sido),
			address_sigungu = COALESCE($7, address_sigungu),
			region_id = COALESCE($8::uuid, region_id),
			job_category_id = COALESCE($9::uuid, job_category_id),
			employment_type = COALESCE($10, employment_type),
			salary_type = COALESCE($11, salary_type),
			salary_min = COALESCE($12, salary_min),
			salary_max = COALESCE($13, salary_max),
			salary_negotiable = COALESCE($14, salary_negotiable),
			career_level = COALESCE($15, career_level),
			deadline_date = COALESCE($16, deadline_date),
			content_html = COALESCE($17, content_html),
			is_recommended = COALESCE($18, is_recommended),
			is_featured = COALESCE($19, is_featured),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + columns

	row := r.pool.QueryRow(ctx, query, id,
		params.Title, params.ContactEmail, params.ContactPhone, params.AddressFull,
		params.AddressSido, params.AddressSigungu, params.RegionID, params.JobCategoryID,
		params.EmploymentType, params.SalaryType, params.SalaryMin, params.SalaryMax,
		params.SalaryNegotiable, params.CareerLevel, params.DeadlineDate, params.ContentHTML,
		params.IsRecommended, params.IsFeatured,
	)

	p, err := scanPosting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Posting{}, ErrNotFound
		}
		return Posting{}, fmt.Errorf("posting: update: %w", err)
	}
	return p, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status Status, hiddenReason, actorID *string) (Posting, error) {
	const query = `
		UPDATE job_postings SET
			status = $2,
			hidden_reason = $3,
			hidden_at = CASE WHEN $2 = 'hidden' THEN now() ELSE NULL END,
			hidden_by = $4::uuid,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + columns

	p, err := scanPosting(r.pool.QueryRow(ctx, query, id, status, hiddenReason, actorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Posting{}, ErrNotFound
		}
		return Posting{}, fmt.Errorf("posting: update status: %w", err)
	}
	return p, nil
}

// IncrementViewCount bumps the counter in a single statement; no
// read-modify-write window.
func (r *PGRepository) IncrementViewCount(ctx context.Context, id string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		UPDATE job_postings SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count
	`, id).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("posting: increment view count: %w", err)
	}
	return count, nil
}

// IncrementApplicationCount runs inside the apply transaction so the
// counter and the application row commit together.
func (r *PGRepository) IncrementApplicationCount(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE job_postings SET application_count = application_count + 1 WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("posting: increment application count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("posting: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapSortKey(key string) string {
	switch key {
	case "deadline_date", "view_count", "application_count", "updated_at":
		return key
	default:
		return "created_at"
	}
}

func scanPosting(row pgx.Row) (Posting, error) {
	var p Posting
	err := row.Scan(
		&p.ID,
		&p.KindergartenID,
		&p.Title,
		&p.Status,
		&p.FacilityName,
		&p.ContactEmail,
		&p.ContactPhone,
		&p.AddressFull,
		&p.AddressSido,
		&p.AddressSigungu,
		&p.RegionID,
		&p.JobCategoryID,
		&p.EmploymentType,
		&p.SalaryType,
		&p.SalaryMin,
		&p.SalaryMax,
		&p.SalaryNegotiable,
		&p.CareerLevel,
		&p.DeadlineDate,
		&p.ContentHTML,
		&p.ViewCount,
		&p.ApplicationCount,
		&p.IsRecommended,
		&p.IsFeatured,
		&p.HiddenReason,
		&p.HiddenAt,
		&p.HiddenBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Posting{}, err
	}
	return p, nil
}
