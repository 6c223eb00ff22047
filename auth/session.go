package auth

import "context"

// TokenStore holds the current session token for one client context.
// Implementations are not expected to be safe for concurrent use; each
// request gets its own store.
type TokenStore interface {
	Get() string
	Set(token string)
	Clear()
}

// MemoryTokenStore keeps the token in process memory. Used by tests and
// by non-browser callers, where Get on an empty store is simply "".
type MemoryTokenStore struct {
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore { return &MemoryTokenStore{} }

func (s *MemoryTokenStore) Get() string       { return s.token }
func (s *MemoryTokenStore) Set(token string)  { s.token = token }
func (s *MemoryTokenStore) Clear()            { s.token = "" }

// Session binds the auth service to one client's token store. It is an
// explicit dependency handed to callers rather than ambient state, so a
// request-scoped store (cookie-backed over HTTP) and a test store plug
// in the same way.
type Session struct {
	svc   *Service
	store TokenStore
}

func NewSession(svc *Service, store TokenStore) *Session {
	return &Session{svc: svc, store: store}
}

// SignIn authenticates and, on success, persists the issued token.
// The store is left untouched on failure.
func (s *Session) SignIn(ctx context.Context, email, password string) (PublicUser, error) {
	result, err := s.svc.SignIn(ctx, email, password)
	if err != nil {
		return PublicUser{}, err
	}
	s.store.Set(result.Token)
	return result.User, nil
}

// SignUp registers and persists the issued token.
func (s *Session) SignUp(ctx context.Context, data SignUpData) (PublicUser, error) {
	result, err := s.svc.SignUp(ctx, data)
	if err != nil {
		return PublicUser{}, err
	}
	s.store.Set(result.Token)
	return result.User, nil
}

// SignOut clears the stored token. Idempotent; never contacts the
// credential store since tokens cannot be revoked server-side.
func (s *Session) SignOut() {
	s.store.Clear()
}

// CurrentUser resolves the stored token to a full profile. A missing,
// invalid, or expired token and an inactive or deleted profile all
// return (nil, nil) — the anonymous state — after clearing the store.
// Only infrastructure failures surface as errors.
func (s *Session) CurrentUser(ctx context.Context) (*User, error) {
	token := s.store.Get()
	if token == "" {
		return nil, nil
	}

	user, err := s.svc.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.store.Clear()
		return nil, nil
	}
	return user, nil
}
