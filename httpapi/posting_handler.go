package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"kinderwork/kindergarten"
	"kinderwork/middleware"
	"kinderwork/posting"
)

// PostingService is the slice of the posting service the handler uses.
type PostingService interface {
	Create(ctx context.Context, params posting.CreateParams) (posting.Posting, error)
	GetByID(ctx context.Context, id string) (posting.Posting, error)
	List(ctx context.Context, filters posting.Filters) (posting.ListResult, error)
	ListActive(ctx context.Context, filters posting.Filters) (posting.ListResult, error)
	ListRecommended(ctx context.Context) (posting.ListResult, error)
	Update(ctx context.Context, id, kindergartenID string, params posting.UpdateParams) (posting.Posting, error)
	Close(ctx context.Context, id, kindergartenID string) (posting.Posting, error)
	Hide(ctx context.Context, id, actorID, reason string) (posting.Posting, error)
	RecordView(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id, kindergartenID string) error
}

// KindergartenResolver maps the authenticated user to their facility
// row for ownership checks.
type KindergartenResolver interface {
	GetByUserID(ctx context.Context, userID string) (kindergarten.Kindergarten, error)
}

// PostingHandler serves the /api/postings routes.
type PostingHandler struct {
	service       PostingService
	kindergartens KindergartenResolver
}

func NewPostingHandler(service PostingService, kindergartens KindergartenResolver) *PostingHandler {
	return &PostingHandler{service: service, kindergartens: kindergartens}
}

type listResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

// List handles GET /api/postings. Anonymous callers see active
// postings only; the owning facility can pass mine=true to list its
// own postings in every status.
func (h *PostingHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := parsePostingFilters(r)

	if r.URL.Query().Get("mine") == "true" {
		kg, ok := h.resolveKindergarten(w, r)
		if !ok {
			return
		}
		filters.KindergartenID = kg.ID

		result, err := h.service.List(r.Context(), filters)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Items: toPostingViews(result.Items), Total: result.Total})
		return
	}

	if r.URL.Query().Get("recommended") == "true" {
		result, err := h.service.ListRecommended(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Items: toPostingViews(result.Items), Total: result.Total})
		return
	}

	result, err := h.service.ListActive(r.Context(), filters)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: toPostingViews(result.Items), Total: result.Total})
}

// Get handles GET /api/postings/{id}.
func (h *PostingHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostingView(p))
}

type postingCreateRequest struct {
	Title            string                  `json:"title"`
	ContactEmail     *string                 `json:"contact_email"`
	ContactPhone     *string                 `json:"contact_phone"`
	AddressFull      string                  `json:"address_full"`
	AddressSido      *string                 `json:"address_sido"`
	AddressSigungu   *string                 `json:"address_sigungu"`
	RegionID         *string                 `json:"region_id"`
	JobCategoryID    *string                 `json:"job_category_id"`
	EmploymentType   *posting.EmploymentType `json:"employment_type"`
	SalaryType       *string                 `json:"salary_type"`
	SalaryMin        *int64                  `json:"salary_min"`
	SalaryMax        *int64                  `json:"salary_max"`
	SalaryNegotiable bool                    `json:"salary_negotiable"`
	CareerLevel      *posting.CareerLevel    `json:"career_level"`
	DeadlineDate     *time.Time              `json:"deadline_date"`
	ContentHTML      *string                 `json:"content_html"`
}

// Create handles POST /api/postings. Facility accounts only.
func (h *PostingHandler) Create(w http.ResponseWriter, r *http.Request) {
	kg, ok := h.resolveKindergarten(w, r)
	if !ok {
		return
	}

	var req postingCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), posting.CreateParams{
		KindergartenID:   kg.ID,
		Title:            req.Title,
		FacilityName:     kg.FacilityName,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		AddressFull:      req.AddressFull,
		AddressSido:      req.AddressSido,
		AddressSigungu:   req.AddressSigungu,
		RegionID:         req.RegionID,
		JobCategoryID:    req.JobCategoryID,
		EmploymentType:   req.EmploymentType,
		SalaryType:       req.SalaryType,
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
		SalaryNegotiable: req.SalaryNegotiable,
		CareerLevel:      req.CareerLevel,
		DeadlineDate:     req.DeadlineDate,
		ContentHTML:      req.ContentHTML,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostingView(p))
}

type postingUpdateRequest struct {
	Title            *string                 `json:"title"`
	ContactEmail     *string                 `json:"contact_email"`
	ContactPhone     *string                 `json:"contact_phone"`
	AddressFull      *string                 `json:"address_full"`
	AddressSido      *string                 `json:"address_sido"`
	AddressSigungu   *string                 `json:"address_sigungu"`
	RegionID         *string                 `json:"region_id"`
	JobCategoryID    *string                 `json:"job_category_id"`
	EmploymentType   *posting.EmploymentType `json:"employment_type"`
	SalaryType       *string                 `json:"salary_type"`
	SalaryMin        *int64                  `json:"salary_min"`
	SalaryMax        *int64                  `json:"salary_max"`
	SalaryNegotiable *bool                   `json:"salary_negotiable"`
	CareerLevel      *posting.CareerLevel    `json:"career_level"`
	DeadlineDate     *time.Time              `json:"deadline_date"`
	ContentHTML      *string                 `json:"content_html"`
}

// Update handles PATCH /api/postings/{id}.
func (h *PostingHandler) Update(w http.ResponseWriter, r *http.Request) {
	kg, ok := h.resolveKindergarten(w, r)
	if !ok {
		return
	}

	var req postingUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), kg.ID, posting.UpdateParams{
		Title:            req.Title,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		AddressFull:      req.AddressFull,
		AddressSido:      req.AddressSido,
		AddressSigungu:   req.AddressSigungu,
		RegionID:         req.RegionID,
		JobCategoryID:    req.JobCategoryID,
		EmploymentType:   req.EmploymentType,
		SalaryType:       req.SalaryType,
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
		SalaryNegotiable: req.SalaryNegotiable,
		CareerLevel:      req.CareerLevel,
		DeadlineDate:     req.DeadlineDate,
		ContentHTML:      req.ContentHTML,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostingView(p))
}

// Close handles POST /api/postings/{id}/close.
func (h *PostingHandler) Close(w http.ResponseWriter, r *http.Request) {
	kg, ok := h.resolveKindergarten(w, r)
	if !ok {
		return
	}

	p, err := h.service.Close(r.Context(), chi.URLParam(r, "id"), kg.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostingView(p))
}

type hideRequest struct {
	Reason string `json:"reason"`
}

// Hide handles POST /api/postings/{id}/hide. Admin only; enforced by
// route middleware.
func (h *PostingHandler) Hide(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	var req hideRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.service.Hide(r.Context(), chi.URLParam(r, "id"), claims.UserID, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostingView(p))
}

// RecordView handles POST /api/postings/{id}/view.
func (h *PostingHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.RecordView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"view_count": count})
}

// Delete handles DELETE /api/postings/{id}.
func (h *PostingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kg, ok := h.resolveKindergarten(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), kg.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostingHandler) resolveKindergarten(w http.ResponseWriter, r *http.Request) (kindergarten.Kindergarten, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return kindergarten.Kindergarten{}, false
	}

	kg, err := h.kindergartens.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusForbidden, "forbidden", "facility account required")
		return kindergarten.Kindergarten{}, false
	}
	return kg, true
}

func parsePostingFilters(r *http.Request) posting.Filters {
	q := r.URL.Query()

	filters := posting.Filters{
		RegionID:      q.Get("region_id"),
		JobCategoryID: q.Get("job_category_id"),
		Sido:          q.Get("sido"),
		Sigungu:       q.Get("sigungu"),
		SortKey:       q.Get("sort"),
		SortOrder:     q.Get("order"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if size, err := strconv.Atoi(q.Get("page_size")); err == nil {
		filters.PageSize = size
	}
	if v := q.Get("featured"); v != "" {
		featured := v == "true"
		filters.IsFeatured = &featured
	}
	return filters
}
