package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"kinderwork/db"
)

// SetupDatabase applies the embedded migrations to the DSN and returns
// a connected pool.
func SetupDatabase(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if err := db.Migrate(dsn); err != nil {
		return nil, fmt.Errorf("infra: migrate: %w", err)
	}
	return db.NewPool(ctx, dsn)
}
