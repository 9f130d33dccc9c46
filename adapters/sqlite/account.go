package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/traveleasy/gate/core"
)

func (s *Store) CreateAccount(ctx context.Context, acc *core.Account) error {
	id := uuid.NewString()
	createdAt := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, email, credential, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, acc.Username, acc.Email, acc.Credential, formatTime(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrAccountExists
		}
		return err
	}

	acc.ID = id
	acc.CreatedAt = createdAt
	return nil
}

func (s *Store) FindAccountByUsername(ctx context.Context, username string) (*core.Account, error) {
	return s.findAccount(ctx, `SELECT id, username, email, credential, created_at FROM accounts WHERE username = ?`, username)
}

func (s *Store) FindAccountByID(ctx context.Context, id string) (*core.Account, error) {
	return s.findAccount(ctx, `SELECT id, username, email, credential, created_at FROM accounts WHERE id = ?`, id)
}

func (s *Store) findAccount(ctx context.Context, query, arg string) (*core.Account, error) {
	acc := &core.Account{}
	var createdAt string

	err := s.db.QueryRowContext(ctx, query, arg).Scan(&acc.ID, &acc.Username, &acc.Email, &acc.Credential, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrAccountNotFound
		}
		return nil, err
	}

	if acc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return acc, nil
}
