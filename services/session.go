package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/traveleasy/gate/core"
	"github.com/traveleasy/gate/pkg/crypto"
)

// SessionManager issues, verifies and destroys server-side sessions.
// Raw tokens never reach the store; everything is keyed by their hash.
type SessionManager struct {
	config core.SessionConfig
	store  core.SessionStore
	cache  core.Cache // optional, nil disables caching
	now    func() time.Time

	// fillMu guards fills and orders cache fills against Destroy.
	fillMu sync.Mutex
	fills  map[string]*cacheFill
}

// cacheFill tracks store reads in flight for one token hash. Destroy marks
// it stale so a read that raced the delete never repopulates the cache.
type cacheFill struct {
	readers int
	stale   bool
}

func NewSessionManager(config core.SessionConfig, store core.SessionStore, cache core.Cache) *SessionManager {
	return &SessionManager{
		config: config,
		store:  store,
		cache:  cache,
		now:    time.Now,
		fills:  make(map[string]*cacheFill),
	}
}

func (sm *SessionManager) Create(ctx context.Context, accountID, ip, userAgent string) (*core.CreateSessionResult, error) {
	tok, err := crypto.NewSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	sessionID, err := crypto.NewSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := sm.now().UTC()
	session := &core.Session{
		ID:        sessionID,
		AccountID: accountID,
		TokenHash: tok.Hash,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: now,
	}
	if sm.config.MaxAge > 0 {
		session.ExpiresAt = now.Add(sm.config.MaxAge)
	}

	if err := sm.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if sm.cache != nil {
		_ = sm.cache.Set(tok.Hash, session)
	}

	return &core.CreateSessionResult{Session: session, Token: tok.Raw}, nil
}

// Verify resolves a raw token to its live session. It returns
// ErrSessionNotFound or ErrSessionExpired for sessions that are gone;
// any other error comes from the store.
func (sm *SessionManager) Verify(ctx context.Context, token string) (*core.Session, error) {
	if token == "" {
		return nil, core.ErrSessionNotFound
	}

	tokenHash := crypto.HashToken(token)

	session, err := sm.lookup(ctx, tokenHash)
	if err != nil {
		return nil, err
	}

	if session.Expired(sm.now()) {
		if sm.cache != nil {
			_ = sm.cache.Delete(tokenHash)
		}
		// best effort cleanup; the session is already unusable
		_ = sm.store.DeleteSessionByHash(ctx, tokenHash)
		return nil, core.ErrSessionExpired
	}

	return session, nil
}

func (sm *SessionManager) lookup(ctx context.Context, tokenHash string) (*core.Session, error) {
	if sm.cache == nil {
		return sm.read(ctx, tokenHash)
	}

	if session, err := sm.cache.Get(tokenHash); err == nil {
		return session, nil
	}

	fill := sm.beginFill(tokenHash)
	session, err := sm.read(ctx, tokenHash)
	sm.endFill(tokenHash, fill, session)

	return session, err
}

func (sm *SessionManager) read(ctx context.Context, tokenHash string) (*core.Session, error) {
	session, err := sm.store.GetSessionByHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, core.ErrSessionNotFound
	}
	return session, nil
}

func (sm *SessionManager) beginFill(tokenHash string) *cacheFill {
	sm.fillMu.Lock()
	defer sm.fillMu.Unlock()

	fill, ok := sm.fills[tokenHash]
	if !ok {
		fill = &cacheFill{}
		sm.fills[tokenHash] = fill
	}
	fill.readers++
	return fill
}

// endFill caches session unless a Destroy ran while it was being read.
func (sm *SessionManager) endFill(tokenHash string, fill *cacheFill, session *core.Session) {
	sm.fillMu.Lock()
	defer sm.fillMu.Unlock()

	fill.readers--
	if fill.readers == 0 {
		delete(sm.fills, tokenHash)
	}
	if session != nil && !fill.stale {
		_ = sm.cache.Set(tokenHash, session)
	}
}

// Destroy removes the session for token. Unknown tokens are not an error.
// The cache entry is dropped even when the store call fails.
func (sm *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	tokenHash := crypto.HashToken(token)

	err := sm.store.DeleteSessionByHash(ctx, tokenHash)
	if sm.cache != nil {
		sm.fillMu.Lock()
		if fill, ok := sm.fills[tokenHash]; ok {
			fill.stale = true
		}
		_ = sm.cache.Delete(tokenHash)
		sm.fillMu.Unlock()
	}
	if err != nil && !errors.Is(err, core.ErrSessionNotFound) {
		return err
	}
	return nil
}
