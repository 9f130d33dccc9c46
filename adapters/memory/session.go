package memory

import (
	"context"
	"sync"

	"github.com/traveleasy/gate/core"
)

var _ core.SessionStore = (*SessionStore)(nil)

// SessionStore is the default session store. It lives as long as the value
// that owns it; nothing is shared between instances.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]core.Session // key: token hash
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]core.Session)}
}

func (s *SessionStore) CreateSession(ctx context.Context, session *core.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.TokenHash] = *session
	return nil
}

func (s *SessionStore) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenHash)
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
