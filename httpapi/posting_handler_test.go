package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"kinderwork/auth"
	"kinderwork/kindergarten"
	"kinderwork/middleware"
	"kinderwork/posting"
)

type fakePostingService struct {
	postings map[string]posting.Posting
	created  []posting.CreateParams
	filters  *posting.Filters
}

func newFakePostingService() *fakePostingService {
	return &fakePostingService{postings: map[string]posting.Posting{
		"post-1": {ID: "post-1", KindergartenID: "kg-1", Title: "Lead teacher", Status: posting.StatusActive, FacilityName: "Sunshine"},
	}}
}

func (f *fakePostingService) Create(ctx context.Context, params posting.CreateParams) (posting.Posting, error) {
	f.created = append(f.created, params)
	return posting.Posting{
		ID:             "post-new",
		KindergartenID: params.KindergartenID,
		Title:          params.Title,
		Status:         posting.StatusActive,
		FacilityName:   params.FacilityName,
		AddressFull:    params.AddressFull,
	}, nil
}

func (f *fakePostingService) GetByID(ctx context.Context, id string) (posting.Posting, error) {
	p, ok := f.postings[id]
	if !ok {
		return posting.Posting{}, posting.ErrNotFound
	}
	return p, nil
}

func (f *fakePostingService) List(ctx context.Context, filters posting.Filters) (posting.ListResult, error) {
	f.filters = &filters
	var items []posting.Posting
	for _, p := range f.postings {
		if filters.KindergartenID == "" || p.KindergartenID == filters.KindergartenID {
			items = append(items, p)
		}
	}
	return posting.ListResult{Items: items, Total: len(items)}, nil
}

func (f *fakePostingService) ListActive(ctx context.Context, filters posting.Filters) (posting.ListResult, error) {
	filters.Status = posting.StatusActive
	return f.List(ctx, filters)
}

func (f *fakePostingService) ListRecommended(ctx context.Context) (posting.ListResult, error) {
	return posting.ListResult{Items: nil, Total: 0}, nil
}

func (f *fakePostingService) Update(ctx context.Context, id, kindergartenID string, params posting.UpdateParams) (posting.Posting, error) {
	p, ok := f.postings[id]
	if !ok {
		return posting.Posting{}, posting.ErrNotFound
	}
	if p.KindergartenID != kindergartenID {
		return posting.Posting{}, posting.ErrForbidden
	}
	if params.Title != nil {
		p.Title = *params.Title
	}
	f.postings[id] = p
	return p, nil
}

func (f *fakePostingService) Close(ctx context.Context, id, kindergartenID string) (posting.Posting, error) {
	p, ok := f.postings[id]
	if !ok {
		return posting.Posting{}, posting.ErrNotFound
	}
	if p.KindergartenID != kindergartenID {
		return posting.Posting{}, posting.ErrForbidden
	}
	p.Status = posting.StatusClosed
	f.postings[id] = p
	return p, nil
}

func (f *fakePostingService) Hide(ctx context.Context, id, actorID, reason string) (posting.Posting, error) {
	p, ok := f.postings[id]
	if !ok {
		return posting.Posting{}, posting.ErrNotFound
	}
	p.Status = posting.StatusHidden
	f.postings[id] = p
	return p, nil
}

func (f *fakePostingService) RecordView(ctx context.Context, id string) (int, error) {
	p, ok := f.postings[id]
	if !ok {
		return 0, posting.ErrNotFound
	}
	p.ViewCount++
	f.postings[id] = p
	return p.ViewCount, nil
}

func (f *fakePostingService) Delete(ctx context.Context, id, kindergartenID string) error {
	p, ok := f.postings[id]
	if !ok {
		return posting.ErrNotFound
	}
	if p.KindergartenID != kindergartenID {
		return posting.ErrForbidden
	}
	delete(f.postings, id)
	return nil
}

type fakeKindergartenResolver struct {
	byUser map[string]kindergarten.Kindergarten
}

func (f *fakeKindergartenResolver) GetByUserID(ctx context.Context, userID string) (kindergarten.Kindergarten, error) {
	kg, ok := f.byUser[userID]
	if !ok {
		return kindergarten.Kindergarten{}, kindergarten.ErrNotFound
	}
	return kg, nil
}

func newPostingFixture() (*PostingHandler, *fakePostingService) {
	svc := newFakePostingService()
	resolver := &fakeKindergartenResolver{byUser: map[string]kindergarten.Kindergarten{
		"user-kg-1": {ID: "kg-1", UserID: "user-kg-1", FacilityName: "Sunshine"},
	}}
	return NewPostingHandler(svc, resolver), svc
}

func asUser(req *http.Request, userID string, userType auth.UserType) *http.Request {
	claims := auth.Claims{UserID: userID, UserType: userType}
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

func TestPostingHandler_Get(t *testing.T) {
	h, _ := newPostingFixture()
	r := chi.NewRouter()
	r.Get("/api/postings/{id}", h.Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/postings/post-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var view postingView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if view.ID != "post-1" || view.Title != "Lead teacher" {
		t.Fatalf("unexpected view %+v", view)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/postings/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing posting: expected 404, got %d", rec.Code)
	}
}

func TestPostingHandler_Create(t *testing.T) {
	h, svc := newPostingFixture()

	body := `{"title":"New opening","address_full":"12 Orchard Road"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/postings", strings.NewReader(body)), "user-kg-1", auth.UserTypeKindergarten)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(svc.created))
	}
	got := svc.created[0]
	if got.KindergartenID != "kg-1" {
		t.Fatalf("kindergarten id must come from the resolved facility, got %q", got.KindergartenID)
	}
	if got.FacilityName != "Sunshine" {
		t.Fatalf("facility name must be denormalized from the facility row, got %q", got.FacilityName)
	}
}

func TestPostingHandler_CreateRequiresFacility(t *testing.T) {
	h, _ := newPostingFixture()
	body := `{"title":"New opening","address_full":"12 Orchard Road"}`

	// Anonymous.
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/postings", strings.NewReader(body)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}

	// Authenticated but no facility row.
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/postings", strings.NewReader(body)), "user-js-1", auth.UserTypeJobSeeker)
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("no facility row: expected 403, got %d", rec.Code)
	}
}

func TestPostingHandler_ListMine(t *testing.T) {
	h, svc := newPostingFixture()

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/postings?mine=true", nil), "user-kg-1", auth.UserTypeKindergarten)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.filters == nil || svc.filters.KindergartenID != "kg-1" {
		t.Fatalf("mine=true must filter by the caller's facility, got %+v", svc.filters)
	}
	if svc.filters.Status != "" {
		t.Fatalf("mine=true must not force a status filter, got %q", svc.filters.Status)
	}

	var body listResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Total != 1 {
		t.Fatalf("expected 1 posting, got %d", body.Total)
	}
}

func TestPostingHandler_ListPublicFilters(t *testing.T) {
	h, svc := newPostingFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/postings?region_id=r1&sort=view_count&order=asc&page=2&page_size=10&featured=true", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	f := svc.filters
	if f == nil {
		t.Fatal("expected filters passed through")
	}
	if f.Status != posting.StatusActive {
		t.Fatalf("public listing must be active-only, got %q", f.Status)
	}
	if f.RegionID != "r1" || f.SortKey != "view_count" || f.SortOrder != "asc" || f.Page != 2 || f.PageSize != 10 {
		t.Fatalf("filters not parsed: %+v", f)
	}
	if f.IsFeatured == nil || !*f.IsFeatured {
		t.Fatalf("featured=true not parsed: %+v", f.IsFeatured)
	}
}

func TestPostingHandler_Close(t *testing.T) {
	h, _ := newPostingFixture()
	r := chi.NewRouter()
	r.Post("/api/postings/{id}/close", h.Close)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/postings/post-1/close", nil), "user-kg-1", auth.UserTypeKindergarten)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var view postingView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if view.Status != posting.StatusClosed {
		t.Fatalf("expected closed, got %s", view.Status)
	}
}

func TestPostingHandler_RecordView(t *testing.T) {
	h, _ := newPostingFixture()
	r := chi.NewRouter()
	r.Post("/api/postings/{id}/view", h.RecordView)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/postings/post-1/view", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["view_count"] != 1 {
		t.Fatalf("expected view_count 1, got %v", body)
	}
}
