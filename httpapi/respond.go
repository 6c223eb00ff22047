// Package httpapi exposes the JSON API over chi.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kinderwork/application"
	"kinderwork/auth"
	"kinderwork/jobseeker"
	"kinderwork/kindergarten"
	"kinderwork/lookup"
	"kinderwork/posting"
	"kinderwork/resume"
	"kinderwork/storage"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

// writeDomainError maps a service error onto a status and a stable
// error code. Unknown errors become an opaque 500 so storage internals
// never leak to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, auth.ErrAccountDisabled):
		writeError(w, http.StatusForbidden, "account_disabled", "account is disabled")
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", "email already in use")
	case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", "user not found")
	case errors.Is(err, application.ErrDuplicate):
		writeError(w, http.StatusConflict, "already_applied", "already applied to this posting")
	case errors.Is(err, application.ErrPostingClosed):
		writeError(w, http.StatusConflict, "posting_closed", "posting is not accepting applications")
	case errors.Is(err, application.ErrInvalidTransition), errors.Is(err, posting.ErrInvalidState):
		writeError(w, http.StatusConflict, "invalid_state", "operation not allowed in the current state")
	case errors.Is(err, posting.ErrForbidden),
		errors.Is(err, resume.ErrForbidden),
		errors.Is(err, application.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "not allowed")
	case errors.Is(err, posting.ErrNotFound),
		errors.Is(err, resume.ErrNotFound),
		errors.Is(err, resume.ErrNoPrimary),
		errors.Is(err, application.ErrNotFound),
		errors.Is(err, kindergarten.ErrNotFound),
		errors.Is(err, jobseeker.ErrNotFound),
		errors.Is(err, lookup.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, storage.ErrUnknownBucket):
		writeError(w, http.StatusBadRequest, "unknown_bucket", "unknown upload bucket")
	default:
		slog.Error("internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON")
		return false
	}
	return true
}
