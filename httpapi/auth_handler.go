package httpapi

import (
	"context"
	"net/http"
	"strings"

	"kinderwork/auth"
	"kinderwork/middleware"
)

// sessionMaxAge matches the token TTL so the cookie and the token
// expire together.
const sessionMaxAge = 7 * 24 * 60 * 60

// AuthService is the slice of the auth façade the handler uses.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (auth.AuthResult, error)
	SignUp(ctx context.Context, data auth.SignUpData) (auth.AuthResult, error)
	CurrentUser(ctx context.Context, token string) (*auth.User, error)
	Withdraw(ctx context.Context, userID, reason string) error
}

// AuthOutcomeRecorder counts sign-in/sign-up attempts by outcome.
type AuthOutcomeRecorder interface {
	RecordAuthOutcome(operation, outcome string)
}

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	service      AuthService
	outcomes     AuthOutcomeRecorder
	cookieSecure bool
}

func NewAuthHandler(service AuthService, outcomes AuthOutcomeRecorder, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		outcomes:     outcomes,
		cookieSecure: cookieSecure,
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string          `json:"token"`
	User  auth.PublicUser `json:"user"`
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.recordOutcome("signin", "failure")
		writeDomainError(w, err)
		return
	}

	h.recordOutcome("signin", "success")
	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var data auth.SignUpData
	if !decodeBody(w, r, &data) {
		return
	}

	result, err := h.service.SignUp(r.Context(), data)
	if err != nil {
		h.recordOutcome("signup", "failure")
		writeDomainError(w, err)
		return
	}

	h.recordOutcome("signup", "success")
	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

// SignOut handles POST /auth/signout. Clearing the cookie is all there
// is to do; tokens stay valid until expiry and signing out twice is
// fine.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me. Anonymous callers get user: null rather
// than an error.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequest(r)

	user, err := h.service.CurrentUser(r.Context(), token)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user.PublicView()})
}

type withdrawRequest struct {
	Reason string `json:"reason"`
}

// Withdraw handles POST /auth/withdraw.
func (h *AuthHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	var req withdrawRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "withdrawal reason required")
		return
	}

	if err := h.service.Withdraw(r.Context(), userID, req.Reason); err != nil {
		writeDomainError(w, err)
		return
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) recordOutcome(operation, outcome string) {
	if h.outcomes != nil {
		h.outcomes.RecordAuthOutcome(operation, outcome)
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
