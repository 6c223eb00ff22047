package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"kinderwork/jobseeker"
	"kinderwork/kindergarten"
)

var (
	// ErrInvalidCredentials signals wrong email or password. The two
	// cases are deliberately indistinguishable to prevent account
	// enumeration.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrAccountDisabled signals a soft-disabled account.
	ErrAccountDisabled = errors.New("auth: account disabled")
	// ErrMissingFields signals a sign-up with required fields absent.
	ErrMissingFields = errors.New("auth: email, password and nickname are required")
	// ErrEmailTaken signals the email is already registered.
	ErrEmailTaken = errors.New("auth: email already in use")
	// ErrWeakPassword signals password doesn't meet requirements.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
)

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// KindergartenWriter creates the facility role row inside the sign-up
// transaction.
type KindergartenWriter interface {
	Create(ctx context.Context, tx pgx.Tx, params kindergarten.CreateParams) (kindergarten.Kindergarten, error)
}

// JobSeekerWriter creates the seeker role row inside the sign-up
// transaction.
type JobSeekerWriter interface {
	Create(ctx context.Context, tx pgx.Tx, params jobseeker.CreateParams) (jobseeker.JobSeeker, error)
}

// Service composes the credential store, hasher and token manager into
// the sign-in/sign-up/current-user flows.
type Service struct {
	pool          TxBeginner
	repo          Repository
	kindergartens KindergartenWriter
	jobSeekers    JobSeekerWriter
	hasher        *Hasher
	tokens        *TokenManager
	idGenerator   func() string
	now           func() time.Time
}

// AuthResult bundles the token and public user view returned after a
// successful sign-in or sign-up.
type AuthResult struct {
	Token string
	User  PublicUser
}

func NewService(pool TxBeginner, repo Repository, kgs KindergartenWriter, seekers JobSeekerWriter, tokens *TokenManager) *Service {
	return &Service{
		pool:          pool,
		repo:          repo,
		kindergartens: kgs,
		jobSeekers:    seekers,
		hasher:        NewHasher(),
		tokens:        tokens,
		idGenerator:   func() string { return uuid.NewString() },
		now:           time.Now,
	}
}

func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SignIn authenticates by exact email match and password comparison.
// Unknown email and wrong password fail identically; a disabled account
// gets its own error. On success last_login_at is updated and a token
// issued.
func (s *Service) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if !user.IsActive {
		return AuthResult{}, ErrAccountDisabled
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		return AuthResult{}, fmt.Errorf("auth: update last login: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Token: token, User: user.PublicView()}, nil
}

// SignUp registers a new account. The profile row and the role row are
// written in a single transaction: a role-row failure rolls back the
// profile. The email pre-check is advisory only; the unique index on
// user_profiles.email is the real guarantee, surfaced as ErrEmailTaken.
func (s *Service) SignUp(ctx context.Context, data SignUpData) (AuthResult, error) {
	if data.Email == "" || data.Password == "" || data.Nickname == "" {
		return AuthResult{}, ErrMissingFields
	}
	if len(data.Password) < 8 {
		return AuthResult{}, ErrWeakPassword
	}
	if !isValidUserType(data.UserType) {
		return AuthResult{}, fmt.Errorf("auth: invalid user type %q", data.UserType)
	}
	switch data.UserType {
	case UserTypeKindergarten:
		if data.Kindergarten == nil {
			return AuthResult{}, ErrMissingFields
		}
	case UserTypeJobSeeker:
		if data.JobSeeker == nil {
			return AuthResult{}, ErrMissingFields
		}
	}

	// Fast path for the common duplicate case. Racy by nature; the
	// insert below is the authoritative check.
	if taken, err := s.repo.EmailExists(ctx, data.Email); err == nil && taken {
		return AuthResult{}, ErrEmailTaken
	}

	passwordHash, err := s.hasher.Hash(data.Password)
	if err != nil {
		return AuthResult{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return AuthResult{}, fmt.Errorf("auth: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	user, err := s.repo.CreateProfile(ctx, tx, CreateProfileParams{
		ID:           s.idGenerator(),
		UserType:     data.UserType,
		Email:        data.Email,
		PasswordHash: passwordHash,
		Nickname:     data.Nickname,
		SignupSource: data.SignupSource,
	})
	if err != nil {
		return AuthResult{}, err
	}

	switch data.UserType {
	case UserTypeKindergarten:
		kg := data.Kindergarten
		_, err = s.kindergartens.Create(ctx, tx, kindergarten.CreateParams{
			UserID:          user.ID,
			FacilityName:    kg.FacilityName,
			HomepageURL:     kg.HomepageURL,
			BusinessEmail:   kg.BusinessEmail,
			AddressFull:     kg.AddressFull,
			AddressSido:     kg.AddressSido,
			AddressSigungu:  kg.AddressSigungu,
			AddressDetail:   kg.AddressDetail,
			Phone:           kg.Phone,
			ProfileImageURL: kg.ProfileImageURL,
			Introduction:    kg.Introduction,
		})
	case UserTypeJobSeeker:
		js := data.JobSeeker
		_, err = s.jobSeekers.Create(ctx, tx, jobseeker.CreateParams{
			UserID:          user.ID,
			FullName:        js.FullName,
			Phone:           js.Phone,
			Email:           js.ContactEmail,
			AddressFull:     js.AddressFull,
			AddressSido:     js.AddressSido,
			AddressSigungu:  js.AddressSigungu,
			ProfileImageURL: js.ProfileImageURL,
			FinalEducation:  js.FinalEducation,
			Introduction:    js.Introduction,
		})
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("auth: create role row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, fmt.Errorf("auth: commit tx: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Token: token, User: user.PublicView()}, nil
}

// CurrentUser resolves a token to its profile. Invalid or expired
// tokens, missing profiles and disabled accounts all return (nil, nil):
// the caller is anonymous. Only infrastructure failures are errors.
func (s *Service) CurrentUser(ctx context.Context, token string) (*User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}
	return &user, nil
}

// VerifyToken exposes claims verification for the HTTP middleware.
func (s *Service) VerifyToken(token string) (Claims, error) {
	return s.tokens.Verify(token)
}

// Withdraw soft-disables an account and records the user's stated
// reason. Both writes happen in one transaction.
func (s *Service) Withdraw(ctx context.Context, userID, reason string) error {
	if reason == "" {
		return fmt.Errorf("auth: withdrawal reason required")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("auth: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Deactivate(ctx, tx, user.ID); err != nil {
		return err
	}
	if err := s.repo.InsertWithdrawal(ctx, tx, WithdrawalParams{
		UserID:   user.ID,
		UserType: user.UserType,
		Email:    user.Email,
		Reason:   reason,
	}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("auth: commit tx: %w", err)
	}
	return nil
}
