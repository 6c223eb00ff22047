package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"kinderwork/jobseeker"
	"kinderwork/kindergarten"
)

func newTestService() (*Service, *fakeRepository, *fakePool) {
	repo := newFakeRepository()
	pool := &fakePool{}
	svc := NewService(pool, repo, &fakeKindergartenWriter{}, &fakeJobSeekerWriter{}, NewTokenManager("test-secret"))
	return svc, repo, pool
}

func kindergartenSignUp(email string) SignUpData {
	return SignUpData{
		Email:    email,
		Password: "strongpassword",
		Nickname: "sunshine",
		UserType: UserTypeKindergarten,
		Kindergarten: &KindergartenDetails{
			FacilityName:   "Sunshine Kindergarten",
			AddressFull:    "12 Orchard Road",
			AddressSido:    "Seoul",
			AddressSigungu: "Mapo-gu",
			Phone:          "02-123-4567",
		},
	}
}

func TestService_SignUpAndSignIn(t *testing.T) {
	svc, repo, pool := newTestService()
	ctx := context.Background()

	result, err := svc.SignUp(ctx, kindergartenSignUp("owner@example.com"))
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if result.Token == "" {
		t.Fatal("sign up: expected a token")
	}
	if result.User.Email != "owner@example.com" {
		t.Fatalf("sign up: expected email echoed back, got %q", result.User.Email)
	}
	if pool.tx == nil || !pool.tx.committed {
		t.Fatal("sign up must commit its transaction")
	}

	signedIn, err := svc.SignIn(ctx, "owner@example.com", "strongpassword")
	if err != nil {
		t.Fatalf("sign in after sign up: %v", err)
	}

	claims, err := svc.VerifyToken(signedIn.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Fatalf("expected user id %q in claims, got %q", result.User.ID, claims.UserID)
	}
	if claims.UserType != UserTypeKindergarten {
		t.Fatalf("expected kindergarten claims, got %s", claims.UserType)
	}

	stored := repo.usersByID[result.User.ID]
	if stored.LastLoginAt == nil {
		t.Fatal("sign in must stamp last_login_at")
	}
	if stored.PasswordHash == "strongpassword" {
		t.Fatal("password must be stored hashed")
	}
}

func TestService_SignInIndistinguishableFailures(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, kindergartenSignUp("owner@example.com")); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	_, unknownErr := svc.SignIn(ctx, "nobody@example.com", "whatever")
	_, wrongErr := svc.SignIn(ctx, "owner@example.com", "not the password")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("the two failures must be indistinguishable: %q vs %q", unknownErr, wrongErr)
	}
}

func TestService_SignInDisabledAccount(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	result, err := svc.SignUp(ctx, kindergartenSignUp("owner@example.com"))
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	user := repo.usersByID[result.User.ID]
	user.IsActive = false
	repo.store(user)

	if _, err := svc.SignIn(ctx, "owner@example.com", "strongpassword"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestService_SignUpValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	missing := kindergartenSignUp("owner@example.com")
	missing.Nickname = ""
	if _, err := svc.SignUp(ctx, missing); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("missing nickname: expected ErrMissingFields, got %v", err)
	}

	weak := kindergartenSignUp("owner@example.com")
	weak.Password = "short"
	if _, err := svc.SignUp(ctx, weak); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	noDetails := kindergartenSignUp("owner@example.com")
	noDetails.Kindergarten = nil
	if _, err := svc.SignUp(ctx, noDetails); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("missing role details: expected ErrMissingFields, got %v", err)
	}

	badType := kindergartenSignUp("owner@example.com")
	badType.UserType = "wizard"
	if _, err := svc.SignUp(ctx, badType); err == nil {
		t.Fatal("expected error for unknown user type")
	}
}

func TestService_SignUpDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, kindergartenSignUp("owner@example.com")); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	if _, err := svc.SignUp(ctx, kindergartenSignUp("owner@example.com")); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestService_SignUpRoleRowFailureRollsBack(t *testing.T) {
	repo := newFakeRepository()
	pool := &fakePool{}
	failing := &fakeJobSeekerWriter{err: errors.New("boom")}
	svc := NewService(pool, repo, &fakeKindergartenWriter{}, failing, NewTokenManager("test-secret"))

	_, err := svc.SignUp(context.Background(), SignUpData{
		Email:    "seeker@example.com",
		Password: "strongpassword",
		Nickname: "seeker",
		UserType: UserTypeJobSeeker,
		JobSeeker: &JobSeekerDetails{
			FullName: "Kim Seeker",
			Phone:    "010-1234-5678",
		},
	})
	if err == nil {
		t.Fatal("expected sign up to fail when the role row fails")
	}
	if pool.tx == nil {
		t.Fatal("expected a transaction to have been started")
	}
	if pool.tx.committed {
		t.Fatal("transaction must not commit when the role row fails")
	}
	if !pool.tx.rolled {
		t.Fatal("transaction must roll back when the role row fails")
	}
}

func TestService_CurrentUser(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	result, err := svc.SignUp(ctx, kindergartenSignUp("owner@example.com"))
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	user, err := svc.CurrentUser(ctx, result.Token)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user == nil || user.ID != result.User.ID {
		t.Fatalf("expected the signed-up user back, got %+v", user)
	}

	// Garbage token is anonymous, not an error.
	anon, err := svc.CurrentUser(ctx, "garbage")
	if err != nil || anon != nil {
		t.Fatalf("garbage token: expected (nil, nil), got (%+v, %v)", anon, err)
	}

	// Disabled account is anonymous too.
	stored := repo.usersByID[result.User.ID]
	stored.IsActive = false
	repo.store(stored)

	anon, err = svc.CurrentUser(ctx, result.Token)
	if err != nil || anon != nil {
		t.Fatalf("disabled account: expected (nil, nil), got (%+v, %v)", anon, err)
	}
}

func TestService_Withdraw(t *testing.T) {
	svc, repo, pool := newTestService()
	ctx := context.Background()

	result, err := svc.SignUp(ctx, kindergartenSignUp("owner@example.com"))
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if err := svc.Withdraw(ctx, result.User.ID, ""); err == nil {
		t.Fatal("expected error for empty withdrawal reason")
	}

	if err := svc.Withdraw(ctx, result.User.ID, "found a job elsewhere"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if pool.tx == nil || !pool.tx.committed {
		t.Fatal("withdraw must commit its transaction")
	}
	if repo.usersByID[result.User.ID].IsActive {
		t.Fatal("withdraw must deactivate the account")
	}
	if len(repo.withdrawals) != 1 || repo.withdrawals[0].Reason != "found a job elsewhere" {
		t.Fatalf("expected one recorded withdrawal reason, got %+v", repo.withdrawals)
	}
}

type fakeRepository struct {
	usersByEmail map[string]User
	usersByID    map[string]User
	withdrawals  []WithdrawalParams
	nextID       int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		usersByEmail: make(map[string]User),
		usersByID:    make(map[string]User),
		nextID:       1,
	}
}

func (f *fakeRepository) store(user User) {
	f.usersByEmail[user.Email] = user
	f.usersByID[user.ID] = user
}

func (f *fakeRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	user, ok := f.usersByEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, userID string) (User, error) {
	user, ok := f.usersByID[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.usersByEmail[email]
	return ok, nil
}

func (f *fakeRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	user, ok := f.usersByID[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.LastLoginAt = &at
	f.store(user)
	return nil
}

func (f *fakeRepository) CreateProfile(ctx context.Context, tx pgx.Tx, params CreateProfileParams) (User, error) {
	if _, exists := f.usersByEmail[params.Email]; exists {
		return User{}, ErrEmailTaken
	}

	id := params.ID
	if id == "" {
		id = fmt.Sprintf("user-%d", f.nextID)
	}
	f.nextID++

	user := User{
		ID:           id,
		UserType:     params.UserType,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Nickname:     params.Nickname,
		SignupSource: params.SignupSource,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.store(user)
	return user, nil
}

func (f *fakeRepository) Deactivate(ctx context.Context, tx pgx.Tx, userID string) error {
	user, ok := f.usersByID[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.IsActive = false
	f.store(user)
	return nil
}

func (f *fakeRepository) InsertWithdrawal(ctx context.Context, tx pgx.Tx, params WithdrawalParams) error {
	f.withdrawals = append(f.withdrawals, params)
	return nil
}

type fakeKindergartenWriter struct {
	err error
}

func (f *fakeKindergartenWriter) Create(ctx context.Context, tx pgx.Tx, params kindergarten.CreateParams) (kindergarten.Kindergarten, error) {
	if f.err != nil {
		return kindergarten.Kindergarten{}, f.err
	}
	return kindergarten.Kindergarten{ID: "kg-1", UserID: params.UserID, FacilityName: params.FacilityName}, nil
}

type fakeJobSeekerWriter struct {
	err error
}

func (f *fakeJobSeekerWriter) Create(ctx context.Context, tx pgx.Tx, params jobseeker.CreateParams) (jobseeker.JobSeeker, error) {
	if f.err != nil {
		return jobseeker.JobSeeker{}, f.err
	}
	return jobseeker.JobSeeker{ID: "js-1", UserID: params.UserID, FullName: params.FullName}, nil
}

type fakePool struct {
	tx *fakeTx
}

func (f *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	f.tx = &fakeTx{}
	return f.tx, nil
}

type fakeTx struct {
	rolled    bool
	committed bool
}

func (f *fakeTx) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("fakeTx does not support nested transactions")
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolled = true
	return nil
}

func (f *fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}

func (f *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}

func (f *fakeTx) LargeObjects() pgx.LargeObjects {
	panic("not implemented")
}

func (f *fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}

func (f *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}

func (f *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not implemented")
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not implemented")
}

func (f *fakeTx) Conn() *pgx.Conn {
	return nil
}
