package httpapi

import (
	"context"
	"net/http"

	"kinderwork/auth"
	"kinderwork/jobseeker"
	"kinderwork/kindergarten"
	"kinderwork/middleware"
)

// KindergartenService is the slice of the facility profile service the
// handler uses.
type KindergartenService interface {
	GetByUserID(ctx context.Context, userID string) (kindergarten.Kindergarten, error)
	Update(ctx context.Context, userID string, params kindergarten.UpdateParams) (kindergarten.Kindergarten, error)
}

// JobSeekerService is the slice of the seeker profile service the
// handler uses.
type JobSeekerService interface {
	GetByUserID(ctx context.Context, userID string) (jobseeker.JobSeeker, error)
	Update(ctx context.Context, userID string, params jobseeker.UpdateParams) (jobseeker.JobSeeker, error)
}

// ProfileHandler serves the role profile routes. The account type
// decides which table backs the profile.
type ProfileHandler struct {
	kindergartens KindergartenService
	jobSeekers    JobSeekerService
}

func NewProfileHandler(kindergartens KindergartenService, jobSeekers JobSeekerService) *ProfileHandler {
	return &ProfileHandler{kindergartens: kindergartens, jobSeekers: jobSeekers}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	switch claims.UserType {
	case auth.UserTypeKindergarten:
		kg, err := h.kindergartens.GetByUserID(r.Context(), claims.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toKindergartenView(kg))
	case auth.UserTypeJobSeeker:
		js, err := h.jobSeekers.GetByUserID(r.Context(), claims.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toJobSeekerView(js))
	default:
		writeError(w, http.StatusNotFound, "not_found", "no role profile for this account")
	}
}

type kindergartenUpdateRequest struct {
	FacilityName    *string `json:"facility_name"`
	HomepageURL     *string `json:"homepage_url"`
	BusinessEmail   *string `json:"business_email"`
	AddressFull     *string `json:"address_full"`
	AddressSido     *string `json:"address_sido"`
	AddressSigungu  *string `json:"address_sigungu"`
	AddressDetail   *string `json:"address_detail"`
	RegionID        *string `json:"region_id"`
	Phone           *string `json:"phone"`
	ProfileImageURL *string `json:"profile_image_url"`
	Introduction    *string `json:"introduction"`
}

type jobSeekerUpdateRequest struct {
	FullName        *string `json:"full_name"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email"`
	AddressFull     *string `json:"address_full"`
	AddressSido     *string `json:"address_sido"`
	AddressSigungu  *string `json:"address_sigungu"`
	AddressDetail   *string `json:"address_detail"`
	RegionID        *string `json:"region_id"`
	ProfileImageURL *string `json:"profile_image_url"`
	FinalEducation  *string `json:"final_education"`
	Introduction    *string `json:"introduction"`
}

// Update handles PATCH /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	switch claims.UserType {
	case auth.UserTypeKindergarten:
		var req kindergartenUpdateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		kg, err := h.kindergartens.Update(r.Context(), claims.UserID, kindergarten.UpdateParams{
			FacilityName:    req.FacilityName,
			HomepageURL:     req.HomepageURL,
			BusinessEmail:   req.BusinessEmail,
			AddressFull:     req.AddressFull,
			AddressSido:     req.AddressSido,
			AddressSigungu:  req.AddressSigungu,
			AddressDetail:   req.AddressDetail,
			RegionID:        req.RegionID,
			Phone:           req.Phone,
			ProfileImageURL: req.ProfileImageURL,
			Introduction:    req.Introduction,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toKindergartenView(kg))
	case auth.UserTypeJobSeeker:
		var req jobSeekerUpdateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		js, err := h.jobSeekers.Update(r.Context(), claims.UserID, jobseeker.UpdateParams{
			FullName:        req.FullName,
			Phone:           req.Phone,
			Email:           req.Email,
			AddressFull:     req.AddressFull,
			AddressSido:     req.AddressSido,
			AddressSigungu:  req.AddressSigungu,
			AddressDetail:   req.AddressDetail,
			RegionID:        req.RegionID,
			ProfileImageURL: req.ProfileImageURL,
			FinalEducation:  req.FinalEducation,
			Introduction:    req.Introduction,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toJobSeekerView(js))
	default:
		writeError(w, http.StatusNotFound, "not_found", "no role profile for this account")
	}
}
