package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUserNotFound signals that no profile matches the lookup.
var ErrUserNotFound = errors.New("auth: user not found")

// Repository handles data access for user profiles.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	CreateProfile(ctx context.Context, tx pgx.Tx, params CreateProfileParams) (User, error)
	Deactivate(ctx context.Context, tx pgx.Tx, userID string) error
	InsertWithdrawal(ctx context.Context, tx pgx.Tx, params WithdrawalParams) error
}

// CreateProfileParams contains write parameters for new profiles.
type CreateProfileParams struct {
	ID           string
	UserType     UserType
	Email        string
	PasswordHash string
	Nickname     string
	SignupSource *string
}

// WithdrawalParams captures a withdrawal_reasons row.
type WithdrawalParams struct {
	UserID   string
	UserType UserType
	Email    string
	Reason   string
}

const userColumns = `id, user_type, email, password_hash, nickname, phone, signup_source, is_active, last_login_at, created_at, updated_at`

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetByEmail retrieves a profile by exact email match.
func (r *PGRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	const selectSQL = `SELECT ` + userColumns + ` FROM user_profiles WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, selectSQL, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("auth: get user by email: %w", err)
	}
	return user, nil
}

// GetByID retrieves a profile by id.
func (r *PGRepository) GetByID(ctx context.Context, userID string) (User, error) {
	const selectSQL = `SELECT ` + userColumns + ` FROM user_profiles WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, selectSQL, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("auth: get user by id: %w", err)
	}
	return user, nil
}

// EmailExists reports whether a profile already uses the email.
func (r *PGRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM user_profiles WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("auth: email exists: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin stamps a successful sign-in.
func (r *PGRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE user_profiles SET last_login_at = $1, updated_at = now() WHERE id = $2
	`, at, userID)
	if err != nil {
		return fmt.Errorf("auth: update last login: %w", err)
	}
	return nil
}

// CreateProfile inserts a new profile within the caller's transaction.
func (r *PGRepository) CreateProfile(ctx context.Context, tx pgx.Tx, params CreateProfileParams) (User, error) {
	const insertSQL = `
		INSERT INTO user_profiles (id, user_type, email, password_hash, nickname, signup_source)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	user, err := scanUser(tx.QueryRow(ctx, insertSQL,
		params.ID,
		params.UserType,
		params.Email,
		params.PasswordHash,
		params.Nickname,
		params.SignupSource,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("auth: create profile: %w", err)
	}
	return user, nil
}

// Deactivate flips is_active within the caller's transaction.
func (r *PGRepository) Deactivate(ctx context.Context, tx pgx.Tx, userID string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE user_profiles SET is_active = false, updated_at = now() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("auth: deactivate profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// InsertWithdrawal records why the user left.
func (r *PGRepository) InsertWithdrawal(ctx context.Context, tx pgx.Tx, params WithdrawalParams) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO withdrawal_reasons (user_id, user_type, email, reason)
		VALUES ($1, $2, $3, $4)
	`, params.UserID, params.UserType, params.Email, params.Reason)
	if err != nil {
		return fmt.Errorf("auth: insert withdrawal: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.UserType,
		&user.Email,
		&user.PasswordHash,
		&user.Nickname,
		&user.Phone,
		&user.SignupSource,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
