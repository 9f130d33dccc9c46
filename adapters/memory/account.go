package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/traveleasy/gate/core"
)

var _ core.AccountStore = (*AccountStore)(nil)

// AccountStore keeps accounts in process memory. A single mutex makes the
// uniqueness check and the insert one atomic step.
type AccountStore struct {
	mu         sync.RWMutex
	byID       map[string]*core.Account
	byUsername map[string]string // username -> id
	byEmail    map[string]string // email -> id
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		byID:       make(map[string]*core.Account),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (s *AccountStore) CreateAccount(ctx context.Context, a *core.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[a.Username]; taken {
		return core.ErrAccountExists
	}
	if _, taken := s.byEmail[a.Email]; taken {
		return core.ErrAccountExists
	}

	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()

	stored := *a
	s.byID[a.ID] = &stored
	s.byUsername[a.Username] = a.ID
	s.byEmail[a.Email] = a.ID
	return nil
}

func (s *AccountStore) FindAccountByUsername(ctx context.Context, username string) (*core.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	a := *s.byID[id]
	return &a, nil
}

func (s *AccountStore) FindAccountByID(ctx context.Context, id string) (*core.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.byID[id]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	a := *stored
	return &a, nil
}

// Len returns the number of stored accounts.
func (s *AccountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
