package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kinderwork/application"
	"kinderwork/middleware"
)

// ApplicationService is the slice of the application service the
// handler uses.
type ApplicationService interface {
	Apply(ctx context.Context, params application.ApplyParams) (application.Application, error)
	GetByID(ctx context.Context, id string) (application.Application, error)
	ListByPosting(ctx context.Context, postingID string) ([]application.Application, error)
	ListByJobSeeker(ctx context.Context, jobSeekerID string) ([]application.Application, error)
	ListByKindergarten(ctx context.Context, kindergartenID string) ([]application.Application, error)
	Review(ctx context.Context, params application.ReviewParams) (application.Application, error)
	Cancel(ctx context.Context, id, jobSeekerID string, reason *string) (application.Application, error)
}

// ApplicationRecorder counts submitted applications.
type ApplicationRecorder interface {
	RecordApplication()
}

// ApplicationHandler serves the /api/applications routes and the
// per-posting application list.
type ApplicationHandler struct {
	service       ApplicationService
	kindergartens KindergartenResolver
	jobSeekers    JobSeekerResolver
	recorder      ApplicationRecorder
}

func NewApplicationHandler(service ApplicationService, kindergartens KindergartenResolver, jobSeekers JobSeekerResolver, recorder ApplicationRecorder) *ApplicationHandler {
	return &ApplicationHandler{
		service:       service,
		kindergartens: kindergartens,
		jobSeekers:    jobSeekers,
		recorder:      recorder,
	}
}

type applyRequest struct {
	JobPostingID string  `json:"job_posting_id"`
	ResumeID     string  `json:"resume_id"`
	CoverLetter  *string `json:"cover_letter"`
}

// Apply handles POST /api/applications. Seeker accounts only.
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	js, ok := h.resolveJobSeeker(w, r)
	if !ok {
		return
	}

	var req applyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	app, err := h.service.Apply(r.Context(), application.ApplyParams{
		JobPostingID: req.JobPostingID,
		ResumeID:     req.ResumeID,
		JobSeekerID:  js,
		CoverLetter:  req.CoverLetter,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordApplication()
	}
	writeJSON(w, http.StatusCreated, toApplicationView(app))
}

// List handles GET /api/applications: the caller's applications, from
// whichever side of the board they are on.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	if js, jsErr := h.jobSeekers.GetByUserID(r.Context(), userID); jsErr == nil {
		items, err := h.service.ListByJobSeeker(r.Context(), js.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Items: toApplicationViews(items), Total: len(items)})
		return
	}

	if kg, kgErr := h.kindergartens.GetByUserID(r.Context(), userID); kgErr == nil {
		items, err := h.service.ListByKindergarten(r.Context(), kg.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Items: toApplicationViews(items), Total: len(items)})
		return
	}

	writeError(w, http.StatusForbidden, "forbidden", "no facility or seeker profile")
}

// ListForPosting handles GET /api/postings/{id}/applications. Only the
// posting's owner sees the applicant list.
func (h *ApplicationHandler) ListForPosting(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	kg, err := h.kindergartens.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusForbidden, "forbidden", "facility account required")
		return
	}

	items, err := h.service.ListByPosting(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	for _, item := range items {
		if item.KindergartenID != kg.ID {
			writeError(w, http.StatusForbidden, "forbidden", "not your posting")
			return
		}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: toApplicationViews(items), Total: len(items)})
}

// Get handles GET /api/applications/{id}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	app, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if !h.mayView(r.Context(), userID, app) {
		writeError(w, http.StatusForbidden, "forbidden", "not allowed")
		return
	}
	writeJSON(w, http.StatusOK, toApplicationView(app))
}

type reviewRequest struct {
	Status application.Status `json:"status"`
	Note   *string            `json:"note"`
}

// UpdateStatus handles POST /api/applications/{id}/status. Facility
// side only; the service enforces ownership and the transition rules.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	kg, err := h.kindergartens.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusForbidden, "forbidden", "facility account required")
		return
	}

	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	app, err := h.service.Review(r.Context(), application.ReviewParams{
		ApplicationID:  chi.URLParam(r, "id"),
		KindergartenID: kg.ID,
		ReviewerUserID: userID,
		NextStatus:     req.Status,
		Note:           req.Note,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationView(app))
}

type cancelRequest struct {
	Reason *string `json:"reason"`
}

// Cancel handles POST /api/applications/{id}/cancel. Seeker side only.
func (h *ApplicationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	js, ok := h.resolveJobSeeker(w, r)
	if !ok {
		return
	}

	var req cancelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	app, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), js, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationView(app))
}

// resolveJobSeeker returns the caller's seeker row id.
func (h *ApplicationHandler) resolveJobSeeker(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return "", false
	}

	js, err := h.jobSeekers.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusForbidden, "forbidden", "job seeker account required")
		return "", false
	}
	return js.ID, true
}

func (h *ApplicationHandler) mayView(ctx context.Context, userID string, app application.Application) bool {
	if js, err := h.jobSeekers.GetByUserID(ctx, userID); err == nil && js.ID == app.JobSeekerID {
		return true
	}
	if kg, err := h.kindergartens.GetByUserID(ctx, userID); err == nil && kg.ID == app.KindergartenID {
		return true
	}
	return false
}
