package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/traveleasy/gate/adapters/memory"
	"github.com/traveleasy/gate/core"
)

// fakeAccountStore wraps the in-memory store and exposes error fields for
// behavior injection.
type fakeAccountStore struct {
	*memory.AccountStore
	createErr error
	findErr   error
	findIDErr error
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{AccountStore: memory.NewAccountStore()}
}

func (f *fakeAccountStore) CreateAccount(ctx context.Context, a *core.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.AccountStore.CreateAccount(ctx, a)
}

func (f *fakeAccountStore) FindAccountByUsername(ctx context.Context, username string) (*core.Account, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.AccountStore.FindAccountByUsername(ctx, username)
}

func (f *fakeAccountStore) FindAccountByID(ctx context.Context, id string) (*core.Account, error) {
	if f.findIDErr != nil {
		return nil, f.findIDErr
	}
	return f.AccountStore.FindAccountByID(ctx, id)
}

// fakeSessionStore counts store reads so cache behavior can be asserted.
type fakeSessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]core.Session
	gets      atomic.Int32
	createErr error
	getErr    error
	deleteErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]core.Session)}
}

func (f *fakeSessionStore) CreateSession(_ context.Context, s *core.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.TokenHash] = *s
	return nil
}

func (f *fakeSessionStore) GetSessionByHash(_ context.Context, tokenHash string) (*core.Session, error) {
	f.gets.Add(1)
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.sessions[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return &s, nil
}

func (f *fakeSessionStore) DeleteSessionByHash(_ context.Context, tokenHash string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, tokenHash)
	return nil
}

func (f *fakeSessionStore) len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sessions)
}

// slowAccountStore blocks until its context is done.
type slowAccountStore struct {
	core.AccountStore
}

func (slowAccountStore) FindAccountByUsername(ctx context.Context, _ string) (*core.Account, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// pausingSessionStore holds GetSessionByHash after the read until release
// is closed, so callers can run operations inside that window.
type pausingSessionStore struct {
	*fakeSessionStore
	read    chan struct{}
	release chan struct{}
}

func newPausingSessionStore() *pausingSessionStore {
	return &pausingSessionStore{
		fakeSessionStore: newFakeSessionStore(),
		read:             make(chan struct{}),
		release:          make(chan struct{}),
	}
}

func (p *pausingSessionStore) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	s, err := p.fakeSessionStore.GetSessionByHash(ctx, tokenHash)
	close(p.read)
	<-p.release
	return s, err
}
