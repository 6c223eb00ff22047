package kindergarten

import "context"

// ProfileStore abstracts repository operations for the service.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (Kindergarten, error)
	GetByUserID(ctx context.Context, userID string) (Kindergarten, error)
	Update(ctx context.Context, id string, params UpdateParams) (Kindergarten, error)
}

// Service exposes business-level facility profile operations.
type Service struct {
	repo ProfileStore
}

func NewService(repo ProfileStore) *Service {
	return &Service{repo: repo}
}

// GetByID returns the facility profile for the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (Kindergarten, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByUserID returns the facility profile owned by a user.
func (s *Service) GetByUserID(ctx context.Context, userID string) (Kindergarten, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Update applies a partial update to the caller's own facility profile.
func (s *Service) Update(ctx context.Context, userID string, params UpdateParams) (Kindergarten, error) {
	kg, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return Kindergarten{}, err
	}
	return s.repo.Update(ctx, kg.ID, params)
}
