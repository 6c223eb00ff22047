package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kinderwork/lookup"
)

// LookupService is the slice of the lookup service the handler uses.
type LookupService interface {
	Regions(ctx context.Context, level int) ([]lookup.Region, error)
	RegionChildren(ctx context.Context, parentID string) ([]lookup.Region, error)
	Categories(ctx context.Context) ([]lookup.JobCategory, error)
	LoadBootstrap(ctx context.Context) (lookup.Bootstrap, error)
}

// LookupHandler serves the read-only reference data routes.
type LookupHandler struct {
	service LookupService
}

func NewLookupHandler(service LookupService) *LookupHandler {
	return &LookupHandler{service: service}
}

// Regions handles GET /api/regions. An optional level query narrows to
// sidos (1) or sigungus (2).
func (h *LookupHandler) Regions(w http.ResponseWriter, r *http.Request) {
	level := 0
	if v := r.URL.Query().Get("level"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 2 {
			writeError(w, http.StatusBadRequest, "invalid_request", "level must be 1 or 2")
			return
		}
		level = parsed
	}

	regions, err := h.service.Regions(r.Context(), level)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegionViews(regions))
}

// RegionChildren handles GET /api/regions/{id}/children.
func (h *LookupHandler) RegionChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.service.RegionChildren(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegionViews(children))
}

// Categories handles GET /api/categories.
func (h *LookupHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryViews(categories))
}

// Bootstrap handles GET /api/bootstrap: the sido list plus the category
// list in one response, for the sign-up wizard.
func (h *LookupHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	boot, err := h.service.LoadBootstrap(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sidos":      toRegionViews(boot.Sidos),
		"categories": toCategoryViews(boot.Categories),
	})
}
