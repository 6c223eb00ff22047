package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kinderwork/auth"
	"kinderwork/test/infra"
)

// withTx runs fn inside a committed transaction.
func withTx(t *testing.T, ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) {
	t.Helper()
	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback(ctx)
	if err := fn(tx); err != nil {
		t.Fatalf("tx body: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit tx: %v", err)
	}
}

func TestPGRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pgC, dsn, err := infra.StartPostgres16(ctx)
	if err != nil {
		t.Skipf("no Postgres available (set INTEGRATION_PG_DSN or run Docker): %v", err)
	}
	defer pgC.Terminate(context.Background())

	pool, err := infra.SetupDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("setup database: %v", err)
	}
	defer pool.Close()

	repo := auth.NewRepository(pool)

	var created auth.User
	withTx(t, ctx, pool, func(tx pgx.Tx) error {
		var err error
		created, err = repo.CreateProfile(ctx, tx, auth.CreateProfileParams{
			UserType:     auth.UserTypeJobSeeker,
			Email:        "seeker@example.com",
			PasswordHash: "$2a$10$fakehashfakehashfakehash",
			Nickname:     "seeker",
		})
		return err
	})
	if created.ID == "" {
		t.Fatal("expected a generated id")
	}
	if !created.IsActive {
		t.Fatal("new profiles must start active")
	}

	t.Run("get by email and id", func(t *testing.T) {
		byEmail, err := repo.GetByEmail(ctx, "seeker@example.com")
		if err != nil {
			t.Fatalf("get by email: %v", err)
		}
		if byEmail.ID != created.ID {
			t.Fatalf("expected id %q, got %q", created.ID, byEmail.ID)
		}

		byID, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get by id: %v", err)
		}
		if byID.Email != "seeker@example.com" {
			t.Fatalf("expected email round trip, got %q", byID.Email)
		}

		if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, auth.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("email exists", func(t *testing.T) {
		exists, err := repo.EmailExists(ctx, "seeker@example.com")
		if err != nil {
			t.Fatalf("email exists: %v", err)
		}
		if !exists {
			t.Fatal("expected email to exist")
		}

		exists, err = repo.EmailExists(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("email exists: %v", err)
		}
		if exists {
			t.Fatal("expected email to not exist")
		}
	})

	t.Run("duplicate email surfaces as ErrEmailTaken", func(t *testing.T) {
		tx, err := pool.Begin(ctx)
		if err != nil {
			t.Fatalf("begin tx: %v", err)
		}
		defer tx.Rollback(ctx)

		_, err = repo.CreateProfile(ctx, tx, auth.CreateProfileParams{
			UserType:     auth.UserTypeKindergarten,
			Email:        "seeker@example.com",
			PasswordHash: "$2a$10$otherhashotherhashother",
			Nickname:     "facility",
		})
		if !errors.Is(err, auth.ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken from the unique index, got %v", err)
		}
	})

	t.Run("update last login", func(t *testing.T) {
		at := time.Now().UTC().Truncate(time.Millisecond)
		if err := repo.UpdateLastLogin(ctx, created.ID, at); err != nil {
			t.Fatalf("update last login: %v", err)
		}

		user, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get by id: %v", err)
		}
		if user.LastLoginAt == nil || !user.LastLoginAt.Equal(at) {
			t.Fatalf("expected last_login_at %v, got %v", at, user.LastLoginAt)
		}
	})

	t.Run("deactivate and record withdrawal", func(t *testing.T) {
		withTx(t, ctx, pool, func(tx pgx.Tx) error {
			if err := repo.Deactivate(ctx, tx, created.ID); err != nil {
				return err
			}
			return repo.InsertWithdrawal(ctx, tx, auth.WithdrawalParams{
				UserID:   created.ID,
				UserType: created.UserType,
				Email:    created.Email,
				Reason:   "left the field",
			})
		})

		user, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get by id: %v", err)
		}
		if user.IsActive {
			t.Fatal("expected the profile to be deactivated")
		}

		var reason string
		err = pool.QueryRow(ctx, `SELECT reason FROM withdrawal_reasons WHERE user_id = $1`, created.ID).Scan(&reason)
		if err != nil {
			t.Fatalf("read withdrawal reason: %v", err)
		}
		if reason != "left the field" {
			t.Fatalf("expected recorded reason, got %q", reason)
		}
	})
}
