package application

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
	// ErrNotFound signals the requested application does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrDuplicate signals the seeker already applied to the posting.
	ErrDuplicate = errors.New("application: already applied")
)

const columns = `id, job_posting_id, resume_id, job_seeker_id, kindergarten_id, status, cover_letter,
	snapshot_posting, snapshot_resume, reviewed_at, reviewed_by, review_note, cancelled_at,
	cancel_reason, created_at, updated_at`

// Repository handles data access for applications.
type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, app Application) (Application, error)
	GetByID(ctx context.Context, id string) (Application, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (Application, error)
	ListByPosting(ctx context.Context, postingID string) ([]Application, error)
	ListByJobSeeker(ctx context.Context, jobSeekerID string) ([]Application, error)
	ListByKindergarten(ctx context.Context, kindergartenID string) ([]Application, error)
	ListByStatus(ctx context.Context, status Status) ([]Application, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, params UpdateStatusParams) (Application, error)
}

// UpdateStatusParams carries one status transition and its metadata.
type UpdateStatusParams struct {
	ID           string
	Status       Status
	ReviewedAt   *time.Time
	ReviewedBy   *string
	ReviewNote   *string
	CancelledAt  *time.Time
	CancelReason *string
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts within the caller's transaction so the posting's
// application counter commits with the row. The unique index on
// (job_posting_id, job_seeker_id) surfaces repeat applies as
// ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, tx pgx.Tx, app Application) (Application, error) {
	const query = `
		INSERT INTO applications (id, job_posting_id, resume_id, job_seeker_id, kindergarten_id,
			status, cover_letter, snapshot_posting, snapshot_resume)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + columns

	row := tx.QueryRow(ctx, query,
		app.ID, app.JobPostingID, app.ResumeID, app.JobSeekerID, app.KindergartenID,
		app.Status, app.CoverLetter, app.SnapshotPosting, app.SnapshotResume,
	)

	created, err := scanApplication(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Application{}, ErrDuplicate
		}
		return Application{}, fmt.Errorf("application: create: %w", err)
	}
	return created, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Application, error) {
	const query = `SELECT ` + columns + ` FROM applications WHERE id = $1`

	app, err := scanApplication(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, fmt.Errorf("application: query by id: %w", err)
	}
	return app, nil
}

// GetForUpdate locks the row for the duration of a transition.
func (r *PGRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (Application, error) {
	const query = `SELECT ` + columns + ` FROM applications WHERE id = $1 FOR UPDATE`

	app, err := scanApplication(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, fmt.Errorf("application: query for update: %w", err)
	}
	return app, nil
}

func (r *PGRepository) ListByPosting(ctx context.Context, postingID string) ([]Application, error) {
	return r.list(ctx, `job_posting_id = $1`, postingID)
}

func (r *PGRepository) ListByJobSeeker(ctx context.Context, jobSeekerID string) ([]Application, error) {
	return r.list(ctx, `job_seeker_id = $1`, jobSeekerID)
}

func (r *PGRepository) ListByKindergarten(ctx context.Context, kindergartenID string) ([]Application, error) {
	return r.list(ctx, `kindergarten_id = $1`, kindergartenID)
}

func (r *PGRepository) ListByStatus(ctx context.Context, status Status) ([]Application, error) {
	return r.list(ctx, `status = $1`, string(status))
}

func (r *PGRepository) list(ctx context.Context, where string, arg any) ([]Application, error) {
	query := `SELECT ` + columns + ` FROM applications WHERE ` + where + ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("application: query list: %w", err)
	}
	defer rows.Close()

	list := []Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("application: scan: %w", err)
		}
		list = append(list, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("application: iterate: %w", err)
	}
	return list, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, params UpdateStatusParams) (Application, error) {
	const query = `
		UPDATE applications SET
			status = $2,
			reviewed_at = COALESCE($3, reviewed_at),
			reviewed_by = COALESCE($4::uuid, reviewed_by),
			review_note = COALESCE($5, review_note),
			cancelled_at = COALESCE($6, cancelled_at),
			cancel_reason = COALESCE($7, cancel_reason),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + columns

	row := tx.QueryRow(ctx, query,
		params.ID, params.Status, params.ReviewedAt, params.ReviewedBy,
		params.ReviewNote, params.CancelledAt, params.CancelReason,
	)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, fmt.Errorf("application: update status: %w", err)
	}
	return app, nil
}

func scanApplication(row pgx.Row) (Application, error) {
	var app Application
	err := row.Scan(
		&app.ID,
		&app.JobPostingID,
		&app.ResumeID,
		&app.JobSeekerID,
		&app.KindergartenID,
		&app.Status,
		&app.CoverLetter,
		&app.SnapshotPosting,
		&app.SnapshotResume,
		&app.ReviewedAt,
		&app.ReviewedBy,
		&app.ReviewNote,
		&app.CancelledAt,
		&app.CancelReason,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return Application{}, err
	}
	return app, nil
}
