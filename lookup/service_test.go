package lookup

import (
	"context"
	"errors"
	"testing"
)

func newTestStore() *fakeStore {
	seoulID := "region-seoul"
	return &fakeStore{
		regions: []Region{
			{ID: seoulID, Code: "11", Name: "Seoul", Level: 1, IsActive: true},
			{ID: "region-busan", Code: "26", Name: "Busan", Level: 1, IsActive: true},
			{ID: "region-mapo", ParentID: &seoulID, Code: "11440", Name: "Mapo-gu", Level: 2, IsActive: true},
		},
		categories: []JobCategory{
			{ID: "cat-teacher", Code: "teacher", Name: "Teacher", IsActive: true},
			{ID: "cat-assistant", Code: "assistant", Name: "Assistant", IsActive: true},
		},
	}
}

func TestService_LoadBootstrap(t *testing.T) {
	svc := NewService(newTestStore())

	boot, err := svc.LoadBootstrap(context.Background())
	if err != nil {
		t.Fatalf("load bootstrap: %v", err)
	}
	if len(boot.Sidos) != 2 {
		t.Fatalf("expected 2 sidos, got %d", len(boot.Sidos))
	}
	for _, r := range boot.Sidos {
		if r.Level != 1 {
			t.Fatalf("bootstrap must only carry level 1 regions, got level %d", r.Level)
		}
	}
	if len(boot.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(boot.Categories))
	}
}

func TestService_LoadBootstrapPropagatesErrors(t *testing.T) {
	store := newTestStore()
	store.categoriesErr = errors.New("boom")
	svc := NewService(store)

	if _, err := svc.LoadBootstrap(context.Background()); err == nil {
		t.Fatal("expected error when a fetch fails")
	}
}

func TestService_ChildrenByParentCode(t *testing.T) {
	svc := NewService(newTestStore())
	ctx := context.Background()

	children, err := svc.ChildrenByParentCode(ctx, "11")
	if err != nil {
		t.Fatalf("children by parent code: %v", err)
	}
	if len(children) != 1 || children[0].Name != "Mapo-gu" {
		t.Fatalf("expected Mapo-gu under Seoul, got %+v", children)
	}

	if _, err := svc.ChildrenByParentCode(ctx, "99"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown code, got %v", err)
	}
}

func TestService_RegionChildren(t *testing.T) {
	svc := NewService(newTestStore())

	children, err := svc.RegionChildren(context.Background(), "region-busan")
	if err != nil {
		t.Fatalf("region children: %v", err)
	}
	if len(children) != 0 {
		t.Fatalf("expected no children under Busan, got %+v", children)
	}
}

type fakeStore struct {
	regions       []Region
	categories    []JobCategory
	categoriesErr error
}

func (f *fakeStore) Regions(ctx context.Context, level int) ([]Region, error) {
	var out []Region
	for _, r := range f.regions {
		if level == 0 || r.Level == level {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) RegionByID(ctx context.Context, id string) (Region, error) {
	for _, r := range f.regions {
		if r.ID == id {
			return r, nil
		}
	}
	return Region{}, ErrNotFound
}

func (f *fakeStore) RegionByCode(ctx context.Context, code string) (Region, error) {
	for _, r := range f.regions {
		if r.Code == code {
			return r, nil
		}
	}
	return Region{}, ErrNotFound
}

func (f *fakeStore) RegionChildren(ctx context.Context, parentID string) ([]Region, error) {
	var out []Region
	for _, r := range f.regions {
		if r.ParentID != nil && *r.ParentID == parentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) Categories(ctx context.Context) ([]JobCategory, error) {
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	return f.categories, nil
}

func (f *fakeStore) CategoryByID(ctx context.Context, id string) (JobCategory, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return JobCategory{}, ErrNotFound
}
