package lookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested reference row does not exist.
var ErrNotFound = errors.New("lookup: not found")

const regionColumns = `id, parent_id, code, name, level, display_order, is_active, created_at, updated_at`
const categoryColumns = `id, code, name, description, display_order, is_active, created_at, updated_at`

// Repository provides read access to regions and job categories.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Regions lists active regions ordered for display. level 0 means all
// levels.
func (r *Repository) Regions(ctx context.Context, level int) ([]Region, error) {
	query := `SELECT ` + regionColumns + ` FROM regions WHERE is_active`
	args := []any{}
	if level > 0 {
		query += ` AND level = $1`
		args = append(args, level)
	}
	query += ` ORDER BY display_order ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lookup: query regions: %w", err)
	}
	defer rows.Close()

	return collectRegions(rows)
}

// RegionByID fetches one region by primary key.
func (r *Repository) RegionByID(ctx context.Context, id string) (Region, error) {
	const query = `SELECT ` + regionColumns + ` FROM regions WHERE id = $1`
	return r.regionRow(ctx, query, id)
}

// RegionByCode fetches one region by its administrative code.
func (r *Repository) RegionByCode(ctx context.Context, code string) (Region, error) {
	const query = `SELECT ` + regionColumns + ` FROM regions WHERE code = $1`
	return r.regionRow(ctx, query, code)
}

// RegionChildren lists the active children of a region (sido → its
// sigungus).
func (r *Repository) RegionChildren(ctx context.Context, parentID string) ([]Region, error) {
	const query = `SELECT ` + regionColumns + ` FROM regions WHERE parent_id = $1 AND is_active ORDER BY display_order ASC`

	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("lookup: query region children: %w", err)
	}
	defer rows.Close()

	return collectRegions(rows)
}

// Categories lists active job categories ordered for display.
func (r *Repository) Categories(ctx context.Context) ([]JobCategory, error) {
	const query = `SELECT ` + categoryColumns + ` FROM job_categories WHERE is_active ORDER BY display_order ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("lookup: query categories: %w", err)
	}
	defer rows.Close()

	list := []JobCategory{}
	for rows.Next() {
		var c JobCategory
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("lookup: scan category: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lookup: iterate categories: %w", err)
	}
	return list, nil
}

// CategoryByID fetches one category by primary key.
func (r *Repository) CategoryByID(ctx context.Context, id string) (JobCategory, error) {
	const query = `SELECT ` + categoryColumns + ` FROM job_categories WHERE id = $1`

	var c JobCategory
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Code, &c.Name, &c.Description, &c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JobCategory{}, ErrNotFound
		}
		return JobCategory{}, fmt.Errorf("lookup: query category: %w", err)
	}
	return c, nil
}

func (r *Repository) regionRow(ctx context.Context, query string, arg any) (Region, error) {
	var reg Region
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&reg.ID, &reg.ParentID, &reg.Code, &reg.Name, &reg.Level,
		&reg.DisplayOrder, &reg.IsActive, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Region{}, ErrNotFound
		}
		return Region{}, fmt.Errorf("lookup: query region: %w", err)
	}
	return reg, nil
}

func collectRegions(rows pgx.Rows) ([]Region, error) {
	list := []Region{}
	for rows.Next() {
		var reg Region
		if err := rows.Scan(&reg.ID, &reg.ParentID, &reg.Code, &reg.Name, &reg.Level,
			&reg.DisplayOrder, &reg.IsActive, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, fmt.Errorf("lookup: scan region: %w", err)
		}
		list = append(list, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lookup: iterate regions: %w", err)
	}
	return list, nil
}
