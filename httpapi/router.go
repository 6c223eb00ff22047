package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"kinderwork/auth"
	"kinderwork/metrics"
	"kinderwork/middleware"
)

// Pinger reports database liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps bundles everything NewRouter wires together.
type RouterDeps struct {
	Logger            *slog.Logger
	Collector         *metrics.Collector
	Gatherer          prometheus.Gatherer
	TokenVerifier     middleware.TokenVerifier
	RateLimiter       *middleware.RateLimiter
	AuthRateLimiter   *middleware.RateLimiter
	CORSAllowedOrigin string
	CookieSecure      bool
	DB                Pinger

	AuthService         AuthService
	PostingService      PostingService
	ResumeService       ResumeService
	ApplicationService  ApplicationService
	LookupService       LookupService
	KindergartenService KindergartenService
	JobSeekerService    JobSeekerService
	Uploader            Uploader
	Attachments         AttachmentStore
}

// NewRouter builds the full route tree and middleware chain.
//
// Middleware order: recovery → CORS → logging (feeds metrics) → token
// auth. Rate limiting sits per group so sign-in/sign-up can carry a
// stricter bucket than the API at large.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))
	r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))

	authHandler := NewAuthHandler(deps.AuthService, deps.Collector, deps.CookieSecure)
	postingHandler := NewPostingHandler(deps.PostingService, deps.KindergartenService)
	resumeHandler := NewResumeHandler(deps.ResumeService, deps.JobSeekerService)
	applicationHandler := NewApplicationHandler(deps.ApplicationService, deps.KindergartenService, deps.JobSeekerService, deps.Collector)
	lookupHandler := NewLookupHandler(deps.LookupService)
	profileHandler := NewProfileHandler(deps.KindergartenService, deps.JobSeekerService)
	uploadHandler := NewUploadHandler(deps.Uploader, deps.Attachments, deps.Collector)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.Ping(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "unavailable", "database unreachable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/auth", func(r chi.Router) {
		// Credential endpoints get the stricter bucket.
		r.With(deps.AuthRateLimiter.Middleware()).Post("/signup", authHandler.SignUp)
		r.With(deps.AuthRateLimiter.Middleware()).Post("/signin", authHandler.SignIn)

		r.Post("/signout", authHandler.SignOut)
		r.Get("/me", authHandler.Me)
		r.With(middleware.RequireAuth).Post("/withdraw", authHandler.Withdraw)
	})

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.Middleware())

		r.Route("/api/postings", func(r chi.Router) {
			r.Get("/", postingHandler.List)
			r.With(middleware.RequireUserType(auth.UserTypeKindergarten)).Post("/", postingHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", postingHandler.Get)
				r.Post("/view", postingHandler.RecordView)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireUserType(auth.UserTypeKindergarten))
					r.Patch("/", postingHandler.Update)
					r.Delete("/", postingHandler.Delete)
					r.Post("/close", postingHandler.Close)
					r.Get("/applications", applicationHandler.ListForPosting)
				})

				r.With(middleware.RequireUserType(auth.UserTypeAdmin)).Post("/hide", postingHandler.Hide)
			})
		})

		r.Route("/api/resumes", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", resumeHandler.List)
			r.Post("/", resumeHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", resumeHandler.Get)
				r.Patch("/", resumeHandler.Update)
				r.Delete("/", resumeHandler.Delete)
				r.Post("/primary", resumeHandler.SetPrimary)
				r.Post("/view", resumeHandler.RecordView)
			})
		})

		r.Route("/api/applications", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", applicationHandler.List)
			r.Post("/", applicationHandler.Apply)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", applicationHandler.Get)
				r.Post("/status", applicationHandler.UpdateStatus)
				r.Post("/cancel", applicationHandler.Cancel)
			})
		})

		r.Get("/api/regions", lookupHandler.Regions)
		r.Get("/api/regions/{id}/children", lookupHandler.RegionChildren)
		r.Get("/api/categories", lookupHandler.Categories)
		r.Get("/api/bootstrap", lookupHandler.Bootstrap)

		r.With(middleware.RequireAuth).Get("/api/profile", profileHandler.Get)
		r.With(middleware.RequireAuth).Patch("/api/profile", profileHandler.Update)

		r.With(middleware.RequireAuth).Post("/api/uploads", uploadHandler.Upload)
		r.With(middleware.RequireAuth).Get("/api/uploads", uploadHandler.List)
	})

	return r
}
