package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"kinderwork/posting"
	"kinderwork/resume"
)

var (
	// ErrForbidden signals the actor may not act on this application.
	ErrForbidden = errors.New("application: forbidden")
	// ErrInvalidTransition signals a status change the state machine
	// does not allow.
	ErrInvalidTransition = errors.New("application: invalid status transition")
	// ErrPostingClosed signals an apply against a non-active posting.
	ErrPostingClosed = errors.New("application: posting is not accepting applications")
)

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostingReader resolves the posting being applied to and bumps its
// counter inside the apply transaction.
type PostingReader interface {
	GetByID(ctx context.Context, id string) (posting.Posting, error)
	IncrementApplicationCount(ctx context.Context, tx pgx.Tx, id string) error
}

// ResumeReader resolves the resume attached to an application.
type ResumeReader interface {
	GetByID(ctx context.Context, id string) (resume.Resume, error)
}

// Service handles application business logic.
type Service struct {
	pool        TxBeginner
	repo        Repository
	postings    PostingReader
	resumes     ResumeReader
	idGenerator func() string
	now         func() time.Time
}

// ApplyParams carries one apply request.
type ApplyParams struct {
	JobPostingID string
	ResumeID     string
	JobSeekerID  string
	CoverLetter  *string
}

func NewService(pool TxBeginner, repo Repository, postings PostingReader, resumes ResumeReader) *Service {
	return &Service{
		pool:        pool,
		repo:        repo,
		postings:    postings,
		resumes:     resumes,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Apply submits a resume to a posting. The application row and the
// posting's application counter commit in one transaction. Snapshots of
// both sides are frozen into the row at apply time.
func (s *Service) Apply(ctx context.Context, params ApplyParams) (Application, error) {
	if params.JobPostingID == "" || params.ResumeID == "" || params.JobSeekerID == "" {
		return Application{}, fmt.Errorf("application: posting, resume and job seeker ids required")
	}

	post, err := s.postings.GetByID(ctx, params.JobPostingID)
	if err != nil {
		return Application{}, err
	}
	if post.Status != posting.StatusActive {
		return Application{}, ErrPostingClosed
	}

	res, err := s.resumes.GetByID(ctx, params.ResumeID)
	if err != nil {
		return Application{}, err
	}
	if res.JobSeekerID != params.JobSeekerID {
		return Application{}, ErrForbidden
	}

	postingSnap, err := json.Marshal(postingSnapshot(post))
	if err != nil {
		return Application{}, fmt.Errorf("application: marshal posting snapshot: %w", err)
	}
	resumeSnap, err := json.Marshal(resumeSnapshot(res))
	if err != nil {
		return Application{}, fmt.Errorf("application: marshal resume snapshot: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Application{}, fmt.Errorf("application: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := s.repo.Create(ctx, tx, Application{
		ID:              s.idGenerator(),
		JobPostingID:    params.JobPostingID,
		ResumeID:        params.ResumeID,
		JobSeekerID:     params.JobSeekerID,
		KindergartenID:  post.KindergartenID,
		Status:          StatusPending,
		CoverLetter:     params.CoverLetter,
		SnapshotPosting: postingSnap,
		SnapshotResume:  resumeSnap,
	})
	if err != nil {
		return Application{}, err
	}

	if err := s.postings.IncrementApplicationCount(ctx, tx, params.JobPostingID); err != nil {
		return Application{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Application{}, fmt.Errorf("application: commit tx: %w", err)
	}
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPosting(ctx context.Context, postingID string) ([]Application, error) {
	return s.repo.ListByPosting(ctx, postingID)
}

func (s *Service) ListByJobSeeker(ctx context.Context, jobSeekerID string) ([]Application, error) {
	return s.repo.ListByJobSeeker(ctx, jobSeekerID)
}

func (s *Service) ListByKindergarten(ctx context.Context, kindergartenID string) ([]Application, error) {
	return s.repo.ListByKindergarten(ctx, kindergartenID)
}

func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Application, error) {
	return s.repo.ListByStatus(ctx, status)
}

// ReviewParams carries a facility-side status change.
type ReviewParams struct {
	ApplicationID  string
	KindergartenID string
	ReviewerUserID string
	NextStatus     Status
	Note           *string
}

// Review moves an application to reviewed/accepted/rejected. The row is
// locked for the transition so concurrent reviews cannot interleave.
func (s *Service) Review(ctx context.Context, params ReviewParams) (Application, error) {
	if params.NextStatus != StatusReviewed && params.NextStatus != StatusAccepted && params.NextStatus != StatusRejected {
		return Application{}, ErrInvalidTransition
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Application{}, fmt.Errorf("application: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	app, err := s.repo.GetForUpdate(ctx, tx, params.ApplicationID)
	if err != nil {
		return Application{}, err
	}
	if app.KindergartenID != params.KindergartenID {
		return Application{}, ErrForbidden
	}
	if !canTransition(app.Status, params.NextStatus) {
		return Application{}, ErrInvalidTransition
	}

	now := s.now()
	updated, err := s.repo.UpdateStatus(ctx, tx, UpdateStatusParams{
		ID:         params.ApplicationID,
		Status:     params.NextStatus,
		ReviewedAt: &now,
		ReviewedBy: &params.ReviewerUserID,
		ReviewNote: params.Note,
	})
	if err != nil {
		return Application{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Application{}, fmt.Errorf("application: commit tx: %w", err)
	}
	return updated, nil
}

// Cancel lets the seeker withdraw an application that is not yet
// decided.
func (s *Service) Cancel(ctx context.Context, id, jobSeekerID string, reason *string) (Application, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Application{}, fmt.Errorf("application: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	app, err := s.repo.GetForUpdate(ctx, tx, id)
	if err != nil {
		return Application{}, err
	}
	if app.JobSeekerID != jobSeekerID {
		return Application{}, ErrForbidden
	}
	if !canTransition(app.Status, StatusCancelled) {
		return Application{}, ErrInvalidTransition
	}

	var reasonPtr *string
	if reason != nil {
		trimmed := strings.TrimSpace(*reason)
		if trimmed != "" {
			reasonPtr = &trimmed
		}
	}

	now := s.now()
	updated, err := s.repo.UpdateStatus(ctx, tx, UpdateStatusParams{
		ID:           id,
		Status:       StatusCancelled,
		CancelledAt:  &now,
		CancelReason: reasonPtr,
	})
	if err != nil {
		return Application{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Application{}, fmt.Errorf("application: commit tx: %w", err)
	}
	return updated, nil
}

func postingSnapshot(p posting.Posting) map[string]any {
	return map[string]any{
		"id":              p.ID,
		"title":           p.Title,
		"facility_name":   p.FacilityName,
		"address_full":    p.AddressFull,
		"employment_type": p.EmploymentType,
		"salary_type":     p.SalaryType,
		"salary_min":      p.SalaryMin,
		"salary_max":      p.SalaryMax,
		"career_level":    p.CareerLevel,
		"deadline_date":   p.DeadlineDate,
	}
}

func resumeSnapshot(r resume.Resume) map[string]any {
	return map[string]any{
		"id":           r.ID,
		"title":        r.Title,
		"full_name":    r.FullName,
		"phone":        r.Phone,
		"email":        r.Email,
		"content_html": r.ContentHTML,
	}
}
