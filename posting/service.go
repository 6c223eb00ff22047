package posting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrForbidden signals the actor does not own the posting.
	ErrForbidden = errors.New("posting: forbidden")
	// ErrInvalidState signals a status change the posting cannot take.
	ErrInvalidState = errors.New("posting: invalid state")
)

// Service handles job posting business logic.
type Service struct {
	repo        Repository
	idGenerator func() string
	now         func() time.Time
}

// CreateParams carries a new posting. FacilityName is denormalized onto
// the posting so listings render without a join.
type CreateParams struct {
	KindergartenID   string
	Title            string
	FacilityName     string
	ContactEmail     *string
	ContactPhone     *string
	AddressFull      string
	AddressSido      *string
	AddressSigungu   *string
	RegionID         *string
	JobCategoryID    *string
	EmploymentType   *EmploymentType
	SalaryType       *string
	SalaryMin        *int64
	SalaryMax        *int64
	SalaryNegotiable bool
	CareerLevel      *CareerLevel
	DeadlineDate     *time.Time
	ContentHTML      *string
}

// ListResult bundles one page of postings with the unpaged total.
type ListResult struct {
	Items []Posting
	Total int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:        repo,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

func (s *Service) Create(ctx context.Context, params CreateParams) (Posting, error) {
	if params.KindergartenID == "" {
		return Posting{}, fmt.Errorf("posting: missing kindergarten id")
	}
	if strings.TrimSpace(params.Title) == "" {
		return Posting{}, fmt.Errorf("posting: title required")
	}
	if params.AddressFull == "" {
		return Posting{}, fmt.Errorf("posting: address required")
	}
	if params.SalaryMin != nil && params.SalaryMax != nil && *params.SalaryMin > *params.SalaryMax {
		return Posting{}, fmt.Errorf("posting: invalid salary range")
	}

	return s.repo.Create(ctx, Posting{
		ID:               s.idGenerator(),
		KindergartenID:   params.KindergartenID,
		Title:            params.Title,
		Status:           StatusActive,
		FacilityName:     params.FacilityName,
		ContactEmail:     params.ContactEmail,
		ContactPhone:     params.ContactPhone,
		AddressFull:      params.AddressFull,
		AddressSido:      params.AddressSido,
		AddressSigungu:   params.AddressSigungu,
		RegionID:         params.RegionID,
		JobCategoryID:    params.JobCategoryID,
		EmploymentType:   params.EmploymentType,
		SalaryType:       params.SalaryType,
		SalaryMin:        params.SalaryMin,
		SalaryMax:        params.SalaryMax,
		SalaryNegotiable: params.SalaryNegotiable,
		CareerLevel:      params.CareerLevel,
		DeadlineDate:     params.DeadlineDate,
		ContentHTML:      params.ContentHTML,
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (Posting, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filters Filters) (ListResult, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

// ListActive is the public board view.
func (s *Service) ListActive(ctx context.Context, filters Filters) (ListResult, error) {
	filters.Status = StatusActive
	return s.List(ctx, filters)
}

// ListRecommended returns active postings flagged for the home page.
func (s *Service) ListRecommended(ctx context.Context) (ListResult, error) {
	recommended := true
	return s.List(ctx, Filters{Status: StatusActive, IsRecommended: &recommended})
}

// Update applies a partial edit after an ownership check.
func (s *Service) Update(ctx context.Context, id, kindergartenID string, params UpdateParams) (Posting, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Posting{}, err
	}
	if p.KindergartenID != kindergartenID {
		return Posting{}, ErrForbidden
	}
	return s.repo.Update(ctx, id, params)
}

// Close ends recruitment. Only the owning facility may close, and only
// from the active state.
func (s *Service) Close(ctx context.Context, id, kindergartenID string) (Posting, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Posting{}, err
	}
	if p.KindergartenID != kindergartenID {
		return Posting{}, ErrForbidden
	}
	if p.Status != StatusActive {
		return Posting{}, ErrInvalidState
	}
	return s.repo.UpdateStatus(ctx, id, StatusClosed, nil, nil)
}

// Hide takes a posting off the board with a recorded reason and actor.
// Used by moderation; any non-hidden posting can be hidden.
func (s *Service) Hide(ctx context.Context, id, actorID, reason string) (Posting, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Posting{}, err
	}
	if p.Status == StatusHidden {
		return Posting{}, ErrInvalidState
	}
	trimmed := strings.TrimSpace(reason)
	var reasonPtr *string
	if trimmed != "" {
		reasonPtr = &trimmed
	}
	return s.repo.UpdateStatus(ctx, id, StatusHidden, reasonPtr, &actorID)
}

// RecordView bumps the view counter and returns the new value.
func (s *Service) RecordView(ctx context.Context, id string) (int, error) {
	return s.repo.IncrementViewCount(ctx, id)
}

// Delete removes a posting after an ownership check.
func (s *Service) Delete(ctx context.Context, id, kindergartenID string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.KindergartenID != kindergartenID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
