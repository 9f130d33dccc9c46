package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/traveleasy/gate/core"
)

func TestAccountStore_CreateAccount(t *testing.T) {
	tests := []struct {
		name    string
		seed    []core.Account
		input   core.Account
		wantErr error
	}{
		{
			name:  "new account",
			input: core.Account{Username: "alice", Email: "a@x.io", Credential: "pw"},
		},
		{
			name:    "duplicate username",
			seed:    []core.Account{{Username: "alice", Email: "a@x.io", Credential: "pw"}},
			input:   core.Account{Username: "alice", Email: "other@x.io", Credential: "pw"},
			wantErr: core.ErrAccountExists,
		},
		{
			name:    "duplicate email",
			seed:    []core.Account{{Username: "alice", Email: "a@x.io", Credential: "pw"}},
			input:   core.Account{Username: "bob", Email: "a@x.io", Credential: "pw"},
			wantErr: core.ErrAccountExists,
		},
		{
			name:  "distinct accounts",
			seed:  []core.Account{{Username: "alice", Email: "a@x.io", Credential: "pw"}},
			input: core.Account{Username: "bob", Email: "b@x.io", Credential: "pw"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			store := NewAccountStore()
			for _, a := range test.seed {
				a := a
				if err := store.CreateAccount(ctx, &a); err != nil {
					t.Fatalf("seed CreateAccount() error = %v", err)
				}
			}
			before := store.Len()

			// Act
			err := store.CreateAccount(ctx, &test.input)

			// Assert
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("CreateAccount() error = %v, want %v", err, test.wantErr)
			}
			if test.wantErr != nil {
				if store.Len() != before {
					t.Error("failed CreateAccount() must not persist anything")
				}
				return
			}
			if test.input.ID == "" || test.input.CreatedAt.IsZero() {
				t.Errorf("CreateAccount() did not assign id/createdAt: %+v", test.input)
			}
			got, err := store.FindAccountByUsername(ctx, test.input.Username)
			if err != nil {
				t.Fatalf("FindAccountByUsername() error = %v", err)
			}
			if got.ID != test.input.ID || got.Email != test.input.Email {
				t.Errorf("FindAccountByUsername() = %+v, want %+v", got, test.input)
			}
		})
	}
}

func TestAccountStore_Find(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()
	alice := &core.Account{Username: "alice", Email: "a@x.io", Credential: "pw"}
	_ = store.CreateAccount(ctx, alice)

	tests := []struct {
		name    string
		find    func() (*core.Account, error)
		wantErr error
	}{
		{name: "by username", find: func() (*core.Account, error) { return store.FindAccountByUsername(ctx, "alice") }},
		{name: "by id", find: func() (*core.Account, error) { return store.FindAccountByID(ctx, alice.ID) }},
		{name: "unknown username", find: func() (*core.Account, error) { return store.FindAccountByUsername(ctx, "carol") }, wantErr: core.ErrAccountNotFound},
		{name: "unknown id", find: func() (*core.Account, error) { return store.FindAccountByID(ctx, "nope") }, wantErr: core.ErrAccountNotFound},
		{name: "username is case sensitive", find: func() (*core.Account, error) { return store.FindAccountByUsername(ctx, "Alice") }, wantErr: core.ErrAccountNotFound},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			got, err := test.find()

			// Assert
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("error = %v, want %v", err, test.wantErr)
			}
			if test.wantErr == nil && got.ID != alice.ID {
				t.Errorf("got id %q, want %q", got.ID, alice.ID)
			}
		})
	}
}

func TestAccountStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()
	_ = store.CreateAccount(ctx, &core.Account{Username: "alice", Email: "a@x.io", Credential: "pw"})

	got, _ := store.FindAccountByUsername(ctx, "alice")
	got.Credential = "changed"

	again, _ := store.FindAccountByUsername(ctx, "alice")
	if again.Credential != "pw" {
		t.Error("mutating a returned account must not change the store")
	}
}

func TestAccountStore_ConcurrentSameUsername(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := NewAccountStore()
	const goroutines = 50
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	// Act
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.CreateAccount(ctx, &core.Account{
				Username:   "alice",
				Email:      fmt.Sprintf("alice%d@x.io", i),
				Credential: "pw",
			})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, core.ErrAccountExists):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	// Assert
	if successes.Load() != 1 {
		t.Errorf("successes = %d, want exactly 1", successes.Load())
	}
	if conflicts.Load() != goroutines-1 {
		t.Errorf("conflicts = %d, want %d", conflicts.Load(), goroutines-1)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestAccountStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewAccountStore()

	err := store.CreateAccount(ctx, &core.Account{Username: "alice", Email: "a@x.io"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("CreateAccount() error = %v, want context.Canceled", err)
	}
}
