package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/traveleasy/gate/core"
)

func (a *Adapter) CreateSession(ctx context.Context, s *core.Session) error {
	query := `INSERT INTO public.sessions (id, account_id, token_hash, ip_address, user_agent, created_at, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := a.pool.Exec(ctx, query,
		s.ID, s.AccountID, s.TokenHash, s.IPAddress, s.UserAgent, s.CreatedAt, nullableTime(s.ExpiresAt),
	)
	return err
}

func (a *Adapter) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	query := `SELECT id, account_id, token_hash, ip_address, user_agent, created_at, expires_at
	          FROM public.sessions WHERE token_hash = $1`

	s := &core.Session{}
	var expiresAt *time.Time
	err := a.pool.QueryRow(ctx, query, tokenHash).Scan(
		&s.ID, &s.AccountID, &s.TokenHash, &s.IPAddress, &s.UserAgent, &s.CreatedAt, &expiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrSessionNotFound
		}
		return nil, err
	}
	if expiresAt != nil {
		s.ExpiresAt = *expiresAt
	}
	return s, nil
}

func (a *Adapter) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE token_hash = $1`, tokenHash)
	return err
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
