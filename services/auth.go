package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/traveleasy/gate/core"
	"github.com/traveleasy/gate/pkg/crypto"
)

// AuthService implements core.Authenticator on top of an account store,
// a session manager and a handle signer.
type AuthService struct {
	accounts     core.AccountStore
	sessions     *SessionManager
	credentials  crypto.CredentialHandler
	handles      *crypto.HandleSigner
	storeTimeout time.Duration

	// dummy is verified against when the username is unknown so both
	// failure paths do the same work.
	dummyOnce sync.Once
	dummy     string
}

var _ core.Authenticator = (*AuthService)(nil)

func NewAuthService(accounts core.AccountStore, sessions *SessionManager, credentials crypto.CredentialHandler, handles *crypto.HandleSigner) *AuthService {
	return &AuthService{
		accounts:    accounts,
		sessions:    sessions,
		credentials: credentials,
		handles:     handles,
	}
}

// WithStoreTimeout bounds every store call. Zero disables the bound.
func (s *AuthService) WithStoreTimeout(d time.Duration) *AuthService {
	s.storeTimeout = d
	return s
}

func (s *AuthService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}

// Register creates a new account. It returns ErrAccountExists when the
// username or email is taken.
func (s *AuthService) Register(ctx context.Context, input core.RegisterInput) (*core.Account, error) {
	switch {
	case blank(input.Username):
		return nil, core.ErrUsernameRequired
	case blank(input.Email):
		return nil, core.ErrEmailRequired
	case input.Password == "":
		return nil, core.ErrPasswordRequired
	}

	credential, err := s.credentials.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to derive credential: %w", err)
	}

	account := &core.Account{
		Username:   input.Username,
		Email:      input.Email,
		Credential: credential,
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.accounts.CreateAccount(storeCtx, account); err != nil {
		if errors.Is(err, core.ErrAccountExists) {
			return nil, core.ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// Login verifies credentials and opens a new session. Unknown usernames and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input core.LoginInput, ipAddress, userAgent string) (*core.LoginResult, error) {
	switch {
	case blank(input.Username):
		return nil, core.ErrUsernameRequired
	case input.Password == "":
		return nil, core.ErrPasswordRequired
	}

	account, err := s.findByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			_, _ = s.credentials.Verify(input.Password, s.dummyCredential())
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	ok, err := s.credentials.Verify(input.Password, account.Credential)
	if err != nil {
		return nil, fmt.Errorf("failed to verify credential: %w", err)
	}
	if !ok {
		return nil, core.ErrInvalidCredentials
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	created, err := s.sessions.Create(storeCtx, account.ID, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	handle, err := s.handles.Sign(created.Token, created.Session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &core.LoginResult{
		Account: account,
		Session: created.Session,
		Handle:  handle,
	}, nil
}

func (s *AuthService) findByUsername(ctx context.Context, username string) (*core.Account, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.accounts.FindAccountByUsername(storeCtx, username)
}

func (s *AuthService) dummyCredential() string {
	s.dummyOnce.Do(func() {
		s.dummy, _ = s.credentials.Hash("gate-dummy-credential")
	})
	return s.dummy
}

// Logout ends the session behind handle. Missing, forged and unknown
// handles are ignored; only store failures are returned.
func (s *AuthService) Logout(ctx context.Context, handle string) error {
	token, err := s.handles.Parse(handle)
	if err != nil {
		return nil
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.sessions.Destroy(storeCtx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Authorize returns the account id bound to handle.
func (s *AuthService) Authorize(ctx context.Context, handle string) (string, error) {
	session, err := s.session(ctx, handle)
	if err != nil {
		return "", err
	}
	return session.AccountID, nil
}

func (s *AuthService) session(ctx context.Context, handle string) (*core.Session, error) {
	token, err := s.handles.Parse(handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrUnauthenticated, err)
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	session, err := s.sessions.Verify(storeCtx, token)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) || errors.Is(err, core.ErrSessionExpired) {
			return nil, fmt.Errorf("%w: %w", core.ErrUnauthenticated, err)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// GetSession resolves handle to its session and account.
func (s *AuthService) GetSession(ctx context.Context, handle string) (*core.SessionData, error) {
	session, err := s.session(ctx, handle)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	account, err := s.accounts.FindAccountByID(storeCtx, session.AccountID)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %w", core.ErrUnauthenticated, err)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &core.SessionData{Account: account, Session: session}, nil
}
