package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"kinderwork/lookup"
)

type fakeLookupService struct {
	regions    []lookup.Region
	children   map[string][]lookup.Region
	categories []lookup.JobCategory
	err        error
}

func (f *fakeLookupService) Regions(ctx context.Context, level int) ([]lookup.Region, error) {
	if f.err != nil {
		return nil, f.err
	}
	if level == 0 {
		return f.regions, nil
	}
	var out []lookup.Region
	for _, r := range f.regions {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLookupService) RegionChildren(ctx context.Context, parentID string) ([]lookup.Region, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.children[parentID], nil
}

func (f *fakeLookupService) Categories(ctx context.Context) ([]lookup.JobCategory, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeLookupService) LoadBootstrap(ctx context.Context) (lookup.Bootstrap, error) {
	if f.err != nil {
		return lookup.Bootstrap{}, f.err
	}
	var sidos []lookup.Region
	for _, r := range f.regions {
		if r.Level == 1 {
			sidos = append(sidos, r)
		}
	}
	return lookup.Bootstrap{Sidos: sidos, Categories: f.categories}, nil
}

func newLookupFixture() *fakeLookupService {
	return &fakeLookupService{
		regions: []lookup.Region{
			{ID: "region-seoul", Code: "11", Name: "Seoul", Level: 1, IsActive: true},
			{ID: "region-mapo", Code: "11440", Name: "Mapo-gu", Level: 2, IsActive: true},
		},
		children: map[string][]lookup.Region{
			"region-seoul": {{ID: "region-mapo", Code: "11440", Name: "Mapo-gu", Level: 2, IsActive: true}},
		},
		categories: []lookup.JobCategory{
			{ID: "cat-teacher", Code: "teacher", Name: "Teacher", IsActive: true},
		},
	}
}

func TestLookupHandler_Regions(t *testing.T) {
	h := NewLookupHandler(newLookupFixture())

	rec := httptest.NewRecorder()
	h.Regions(rec, httptest.NewRequest(http.MethodGet, "/api/regions?level=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var views []regionView
	if err := json.NewDecoder(rec.Body).Decode(&views); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(views) != 1 || views[0].Name != "Seoul" {
		t.Fatalf("expected only the level 1 region, got %+v", views)
	}
}

func TestLookupHandler_RegionsBadLevel(t *testing.T) {
	h := NewLookupHandler(newLookupFixture())

	for _, level := range []string{"0", "3", "abc"} {
		rec := httptest.NewRecorder()
		h.Regions(rec, httptest.NewRequest(http.MethodGet, "/api/regions?level="+level, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("level=%s: expected 400, got %d", level, rec.Code)
		}
	}
}

func TestLookupHandler_RegionChildren(t *testing.T) {
	h := NewLookupHandler(newLookupFixture())

	r := chi.NewRouter()
	r.Get("/api/regions/{id}/children", h.RegionChildren)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/regions/region-seoul/children", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var views []regionView
	if err := json.NewDecoder(rec.Body).Decode(&views); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(views) != 1 || views[0].Name != "Mapo-gu" {
		t.Fatalf("expected Mapo-gu, got %+v", views)
	}
}

func TestLookupHandler_Bootstrap(t *testing.T) {
	h := NewLookupHandler(newLookupFixture())

	rec := httptest.NewRecorder()
	h.Bootstrap(rec, httptest.NewRequest(http.MethodGet, "/api/bootstrap", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Sidos      []regionView   `json:"sidos"`
		Categories []categoryView `json:"categories"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Sidos) != 1 || len(body.Categories) != 1 {
		t.Fatalf("expected 1 sido and 1 category, got %+v", body)
	}
}

func TestLookupHandler_ServiceError(t *testing.T) {
	store := newLookupFixture()
	store.err = errors.New("database down")
	h := NewLookupHandler(store)

	rec := httptest.NewRecorder()
	h.Categories(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for an infrastructure error, got %d", rec.Code)
	}
}
