package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kinderwork/jobseeker"
	"kinderwork/middleware"
	"kinderwork/resume"
)

// ResumeService is the slice of the resume service the handler uses.
type ResumeService interface {
	Create(ctx context.Context, params resume.CreateParams) (resume.Resume, error)
	GetByID(ctx context.Context, id string) (resume.Resume, error)
	ListByJobSeeker(ctx context.Context, jobSeekerID string) ([]resume.Resume, error)
	GetPrimary(ctx context.Context, jobSeekerID string) (resume.Resume, error)
	Update(ctx context.Context, id, jobSeekerID string, params resume.UpdateParams) (resume.Resume, error)
	SetPrimary(ctx context.Context, id, jobSeekerID string) (resume.Resume, error)
	RecordView(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id, jobSeekerID string) error
}

// JobSeekerResolver maps the authenticated user to their seeker row.
type JobSeekerResolver interface {
	GetByUserID(ctx context.Context, userID string) (jobseeker.JobSeeker, error)
}

// ResumeHandler serves the /api/resumes routes.
type ResumeHandler struct {
	service    ResumeService
	jobSeekers JobSeekerResolver
}

func NewResumeHandler(service ResumeService, jobSeekers JobSeekerResolver) *ResumeHandler {
	return &ResumeHandler{service: service, jobSeekers: jobSeekers}
}

// List handles GET /api/resumes: the caller's own resumes, or the
// primary one with primary=true.
func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	js, ok := h.resolveJobSeeker(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("primary") == "true" {
		res, err := h.service.GetPrimary(r.Context(), js.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResumeView(res))
		return
	}

	items, err := h.service.ListByJobSeeker(r.Context(), js.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: toResumeViews(items), Total: len(items)})
}

// Get handles GET /api/resumes/{id}.
func (h *ResumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResumeView(res))
}

type resumeCreateRequest struct {
	Title                   string          `json:"title"`
	IsPrimary               bool            `json:"is_primary"`
	FullName                string          `json:"full_name"`
	Phone                   *string         `json:"phone"`
	Email                   *string         `json:"email"`
	AddressFull             *string         `json:"address_full"`
	ProfileImageURL         *string         `json:"profile_image_url"`
	DesiredFacilityType     *string         `json:"desired_facility_type"`
	DesiredJobCategoryID    *string         `json:"desired_job_category_id"`
	DesiredSalaryMin        *int64          `json:"desired_salary_min"`
	DesiredSalaryMax        *int64          `json:"desired_salary_max"`
	DesiredSalaryNegotiable bool            `json:"desired_salary_negotiable"`
	DesiredRegions          json.RawMessage `json:"desired_regions"`
	ContentHTML             *string         `json:"content_html"`
}

// Create handles POST /api/resumes. Seeker accounts only.
func (h *ResumeHandler) Create(w http.ResponseWriter, r *http.Request) {
	js, ok := h.resolveJobSeeker(w, r)
	if !ok {
		return
	}

	var req resumeCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.service.Create(r.Context(), resume.CreateParams{
		JobSeekerID:             js.ID,
		Title:                   req.Title,
		IsPrimary:               req.IsPrimary,
		FullName:                req.FullName,
		Phone:                   req.Phone,
		Email:                   req.Email,
		AddressFull:             req.AddressFull,
		ProfileImageURL:         req.ProfileImageURL,
		DesiredFacilityType:     req.DesiredFacilityType,
		DesiredJobCategoryID:    req.DesiredJobCategoryID,
		DesiredSalaryMin:        req.DesiredSalaryMin,
		DesiredSalaryMax:        req.DesiredSalaryMax,
		DesiredSalaryNegotiable: req.DesiredSalaryNegotiable,
		DesiredRegions:          req.DesiredRegions,
		ContentHTML:             req.ContentHTML,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResumeView(res))
}

type resumeUpdateRequest struct {
	Title                   *string         `json:"title"`
	FullName                *string         `json:"full_name"`
	Phone                   *string         `json:"phone"`
	Email                   *string         `json:"email"`
	AddressFull             *string         `json:"address_full"`
	ProfileImageURL         *string         `json:"profile_image_url"`
	DesiredFacilityType     *string         `json:"desired_facility_type"`
	DesiredJobCategoryID    *string         `json:"desired_job_category_id"`
	DesiredSalaryMin        *int64          `json:"desired_salary_min"`
	DesiredSalaryMax        *int64          `json:"desired_salary_max"`
	DesiredSalaryNegotiable *bool           `json:"desired_salary_negotiable"`
	DesiredRegions          json.RawMessage `json:"desired_regions"`
	ContentHTML             *string         `json:"content_html"`
}

// Update handles PATCH /api/resumes/{id}. The primary flag has its own
// endpoint.
func (h *ResumeHandler) Update(w http.ResponseWriter, r *http.Request) {
	js, ok := h.resolveJobSeeker(w, r)
	if !ok {
		return
	}

	var req resumeUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), js.ID, resume.UpdateParams{
		Title:                   req.Title,
		FullName:                req.FullName,
		Phone:                   req.Phone,
		Email:                   req.Email,
		AddressFull:             req.AddressFull,
		ProfileImageURL:         req.ProfileImageURL,
		DesiredFacilityType:     req.DesiredFacilityType,
		DesiredJobCategoryID:    req.DesiredJobCategoryID,
		DesiredSalaryMin:        req.DesiredSalaryMin,
		DesiredSalaryMax:        req.DesiredSalaryMax,
		DesiredSalaryNegotiable: req.DesiredSalaryNegotiable,
		DesiredRegions:          req.DesiredRegions,
		ContentHTML:             req.ContentHTML,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResumeView(res))
}

// SetPrimary handles POST /api/resumes/{id}/primary.
func (h *ResumeHandler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	js, ok := h.resolveJobSeeker(w, r)
	if !ok {
		return
	}

	res, err := h.service.SetPrimary(r.Context(), chi.URLParam(r, "id"), js.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResumeView(res))
}

// RecordView handles POST /api/resumes/{id}/view.
func (h *ResumeHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.RecordView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"view_count": count})
}

// Delete handles DELETE /api/resumes/{id}.
func (h *ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	js, ok := h.resolveJobSeeker(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), js.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResumeHandler) resolveJobSeeker(w http.ResponseWriter, r *http.Request) (jobseeker.JobSeeker, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return jobseeker.JobSeeker{}, false
	}

	js, err := h.jobSeekers.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusForbidden, "forbidden", "job seeker account required")
		return jobseeker.JobSeeker{}, false
	}
	return js, true
}
