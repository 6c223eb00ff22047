package lookup

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Store abstracts repository operations for the service.
type Store interface {
	Regions(ctx context.Context, level int) ([]Region, error)
	RegionByID(ctx context.Context, id string) (Region, error)
	RegionByCode(ctx context.Context, code string) (Region, error)
	RegionChildren(ctx context.Context, parentID string) ([]Region, error)
	Categories(ctx context.Context) ([]JobCategory, error)
	CategoryByID(ctx context.Context, id string) (JobCategory, error)
}

// Service exposes read-only reference data lookups.
type Service struct {
	repo Store
}

func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

func (s *Service) Regions(ctx context.Context, level int) ([]Region, error) {
	return s.repo.Regions(ctx, level)
}

func (s *Service) RegionByID(ctx context.Context, id string) (Region, error) {
	return s.repo.RegionByID(ctx, id)
}

func (s *Service) RegionByCode(ctx context.Context, code string) (Region, error) {
	return s.repo.RegionByCode(ctx, code)
}

// RegionChildren returns the sigungus under a sido.
func (s *Service) RegionChildren(ctx context.Context, parentID string) ([]Region, error) {
	return s.repo.RegionChildren(ctx, parentID)
}

// ChildrenByParentCode resolves a sido by code, then lists its
// children.
func (s *Service) ChildrenByParentCode(ctx context.Context, parentCode string) ([]Region, error) {
	parent, err := s.repo.RegionByCode(ctx, parentCode)
	if err != nil {
		return nil, err
	}
	return s.repo.RegionChildren(ctx, parent.ID)
}

func (s *Service) Categories(ctx context.Context) ([]JobCategory, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) CategoryByID(ctx context.Context, id string) (JobCategory, error) {
	return s.repo.CategoryByID(ctx, id)
}

// LoadBootstrap fetches the sido list and the category list in
// parallel; the sign-up wizard needs both before it can render.
func (s *Service) LoadBootstrap(ctx context.Context) (Bootstrap, error) {
	var boot Bootstrap

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sidos, err := s.repo.Regions(ctx, 1)
		if err != nil {
			return err
		}
		boot.Sidos = sidos
		return nil
	})
	g.Go(func() error {
		categories, err := s.repo.Categories(ctx)
		if err != nil {
			return err
		}
		boot.Categories = categories
		return nil
	})

	if err := g.Wait(); err != nil {
		return Bootstrap{}, err
	}
	return boot, nil
}
