package pgx

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/traveleasy/gate/core"
)

const accountColumns = `id, username, email, credential, created_at`

// CreateAccount relies on the UNIQUE constraints so the check and the
// insert are a single statement.
func (a *Adapter) CreateAccount(ctx context.Context, acc *core.Account) error {
	query := `INSERT INTO public.accounts (id, username, email, credential)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at`

	id := uuid.NewString()
	err := a.pool.QueryRow(ctx, query, id, acc.Username, acc.Email, acc.Credential).Scan(&acc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrAccountExists
		}
		return err
	}

	acc.ID = id
	return nil
}

func (a *Adapter) FindAccountByUsername(ctx context.Context, username string) (*core.Account, error) {
	return a.findAccount(ctx, `SELECT `+accountColumns+` FROM public.accounts WHERE username = $1`, username)
}

func (a *Adapter) FindAccountByID(ctx context.Context, id string) (*core.Account, error) {
	return a.findAccount(ctx, `SELECT `+accountColumns+` FROM public.accounts WHERE id = $1`, id)
}

func (a *Adapter) findAccount(ctx context.Context, query string, arg string) (*core.Account, error) {
	acc := &core.Account{}
	err := a.pool.QueryRow(ctx, query, arg).Scan(&acc.ID, &acc.Username, &acc.Email, &acc.Credential, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrAccountNotFound
		}
		return nil, err
	}
	return acc, nil
}
