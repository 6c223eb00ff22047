package resume

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ErrForbidden signals the actor does not own the resume.
var ErrForbidden = errors.New("resume: forbidden")

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Service handles resume business logic. Every write touching the
// primary flag runs clear-then-set inside one transaction; a partial
// unique index on (job_seeker_id) WHERE is_primary backs the invariant
// that at most one resume per seeker is primary.
type Service struct {
	pool TxBeginner
	repo Repository
}

func NewService(pool TxBeginner, repo Repository) *Service {
	return &Service{pool: pool, repo: repo}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (Resume, error) {
	if params.JobSeekerID == "" {
		return Resume{}, fmt.Errorf("resume: missing job seeker id")
	}
	if strings.TrimSpace(params.Title) == "" {
		return Resume{}, fmt.Errorf("resume: title required")
	}
	if params.FullName == "" {
		return Resume{}, fmt.Errorf("resume: full name required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Resume{}, fmt.Errorf("resume: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if params.IsPrimary {
		if err := s.repo.ClearPrimary(ctx, tx, params.JobSeekerID); err != nil {
			return Resume{}, err
		}
	}

	created, err := s.repo.Create(ctx, tx, params)
	if err != nil {
		return Resume{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Resume{}, fmt.Errorf("resume: commit tx: %w", err)
	}
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Resume, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByJobSeeker(ctx context.Context, jobSeekerID string) ([]Resume, error) {
	return s.repo.ListByJobSeeker(ctx, jobSeekerID)
}

func (s *Service) GetPrimary(ctx context.Context, jobSeekerID string) (Resume, error) {
	return s.repo.GetPrimary(ctx, jobSeekerID)
}

// Update edits resume content after an ownership check. The primary
// flag is out of scope here; use SetPrimary.
func (s *Service) Update(ctx context.Context, id, jobSeekerID string, params UpdateParams) (Resume, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if res.JobSeekerID != jobSeekerID {
		return Resume{}, ErrForbidden
	}
	return s.repo.Update(ctx, id, params)
}

// SetPrimary makes one resume the seeker's default. Clearing the old
// flag and setting the new one commit together, so there is no window
// where zero or two resumes are primary.
func (s *Service) SetPrimary(ctx context.Context, id, jobSeekerID string) (Resume, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if res.JobSeekerID != jobSeekerID {
		return Resume{}, ErrForbidden
	}
	if res.IsPrimary {
		return res, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Resume{}, fmt.Errorf("resume: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.ClearPrimary(ctx, tx, res.JobSeekerID); err != nil {
		return Resume{}, err
	}
	updated, err := s.repo.MarkPrimary(ctx, tx, id)
	if err != nil {
		return Resume{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Resume{}, fmt.Errorf("resume: commit tx: %w", err)
	}
	return updated, nil
}

// RecordView bumps the view counter and returns the new value.
func (s *Service) RecordView(ctx context.Context, id string) (int, error) {
	return s.repo.IncrementViewCount(ctx, id)
}

// Delete removes a resume after an ownership check.
func (s *Service) Delete(ctx context.Context, id, jobSeekerID string) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.JobSeekerID != jobSeekerID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
