package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"kinderwork/application"
	"kinderwork/auth"
	"kinderwork/config"
	"kinderwork/db"
	"kinderwork/httpapi"
	"kinderwork/jobseeker"
	"kinderwork/kindergarten"
	"kinderwork/logger"
	"kinderwork/lookup"
	"kinderwork/metrics"
	"kinderwork/middleware"
	"kinderwork/posting"
	"kinderwork/resume"
	"kinderwork/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	logger.SetupDefault(os.Stdout, slog.Level(cfg.LogLevel))
	log := slog.Default()

	if cfg.UsingDevSecret() {
		log.Warn("JWT_SECRET is unset; using the insecure development default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(cfg.Database.DSN); err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return err
	}
	objectStore, err := storage.NewClient(ctx, minioClient, cfg.Storage.PublicBaseURL)
	if err != nil {
		return err
	}

	authRepo := auth.NewRepository(pool)
	kgRepo := kindergarten.NewRepository(pool)
	jsRepo := jobseeker.NewRepository(pool)
	postingRepo := posting.NewRepository(pool)
	resumeRepo := resume.NewRepository(pool)
	applicationRepo := application.NewRepository(pool)
	lookupRepo := lookup.NewRepository(pool)
	attachmentRepo := storage.NewRepository(pool)

	tokens := auth.NewTokenManager(cfg.JWT.Secret)
	authService := auth.NewService(pool, authRepo, kgRepo, jsRepo, tokens)
	kgService := kindergarten.NewService(kgRepo)
	jsService := jobseeker.NewService(jsRepo)
	postingService := posting.NewService(postingRepo)
	resumeService := resume.NewService(pool, resumeRepo)
	applicationService := application.NewService(pool, applicationRepo, postingRepo, resumeRepo)
	lookupService := lookup.NewService(lookupRepo)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:            rate.Limit(cfg.Server.RateLimitRPS),
		Burst:           cfg.Server.RateLimitBurst,
		CleanupInterval: 5 * time.Minute,
	})
	defer rateLimiter.Stop()

	// Credential endpoints get a much smaller bucket.
	authRateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:            rate.Limit(1),
		Burst:           5,
		CleanupInterval: 5 * time.Minute,
	})
	defer authRateLimiter.Stop()

	router := httpapi.NewRouter(&httpapi.RouterDeps{
		Logger:            log,
		Collector:         collector,
		Gatherer:          registry,
		TokenVerifier:     authService,
		RateLimiter:       rateLimiter,
		AuthRateLimiter:   authRateLimiter,
		CORSAllowedOrigin: cfg.Server.CORSOrigin,
		CookieSecure:      cfg.Server.CookieSecure,
		DB:                pool,

		AuthService:         authService,
		PostingService:      postingService,
		ResumeService:       resumeService,
		ApplicationService:  applicationService,
		LookupService:       lookupService,
		KindergartenService: kgService,
		JobSeekerService:    jsService,
		Uploader:            objectStore,
		Attachments:         attachmentRepo,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", cfg.Server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
