package jobseeker

import "context"

// ProfileStore abstracts repository operations for the service.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (JobSeeker, error)
	GetByUserID(ctx context.Context, userID string) (JobSeeker, error)
	Update(ctx context.Context, id string, params UpdateParams) (JobSeeker, error)
}

// Service exposes business-level seeker profile operations.
type Service struct {
	repo ProfileStore
}

func NewService(repo ProfileStore) *Service {
	return &Service{repo: repo}
}

// GetByID returns the seeker profile for the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (JobSeeker, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByUserID returns the seeker profile owned by a user.
func (s *Service) GetByUserID(ctx context.Context, userID string) (JobSeeker, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Update applies a partial update to the caller's own seeker profile.
func (s *Service) Update(ctx context.Context, userID string, params UpdateParams) (JobSeeker, error) {
	js, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return JobSeeker{}, err
	}
	return s.repo.Update(ctx, js.ID, params)
}
