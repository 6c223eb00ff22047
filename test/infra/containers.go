// Package infra provides shared helpers for repository integration
// tests: a throwaway Postgres container with the schema applied.
package infra

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// ErrDockerUnavailable is returned when no Docker daemon looks
// reachable. Tests skip on it instead of failing.
var ErrDockerUnavailable = errors.New("infra: no docker daemon reachable")

// dockerSockets lists the daemon socket paths probed when DOCKER_HOST
// is unset. Overridden in tests.
var dockerSockets = []string{"/var/run/docker.sock"}

// dockerAvailable probes for a reachable Docker daemon before any
// testcontainers call. The library panics rather than erroring when it
// cannot locate a docker host, so the probe has to happen up front.
func dockerAvailable() bool {
	if os.Getenv("DOCKER_HOST") != "" {
		return true
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		if _, err := os.Stat(filepath.Join(dir, "docker.sock")); err == nil {
			return true
		}
	}
	for _, sock := range dockerSockets {
		if _, err := os.Stat(sock); err == nil {
			return true
		}
	}
	return false
}

type PGContainer struct {
	C *postgres.PostgresContainer
}

// StartPostgres16 starts a Postgres 16 container and returns a DSN. If
// INTEGRATION_PG_DSN is set, it reuses that database instead. Without a
// DSN or a reachable Docker daemon it returns ErrDockerUnavailable.
func StartPostgres16(ctx context.Context) (*PGContainer, string, error) {
	if dsn := os.Getenv("INTEGRATION_PG_DSN"); dsn != "" {
		return &PGContainer{}, dsn, nil
	}

	if !dockerAvailable() {
		return nil, "", ErrDockerUnavailable
	}

	pgC, err := postgres.Run(ctx,
		"postgres:16",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
	)
	if err != nil {
		return nil, "", err
	}

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, "", err
	}
	return &PGContainer{C: pgC}, dsn, nil
}

func (p *PGContainer) Terminate(ctx context.Context) error {
	if p == nil || p.C == nil {
		return nil
	}
	return p.C.Terminate(ctx)
}
