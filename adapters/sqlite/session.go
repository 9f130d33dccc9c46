package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/traveleasy/gate/core"
)

func (s *Store) CreateSession(ctx context.Context, session *core.Session) error {
	var expiresAt sql.NullString
	if !session.ExpiresAt.IsZero() {
		expiresAt = sql.NullString{String: formatTime(session.ExpiresAt), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, account_id, token_hash, ip_address, user_agent, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.AccountID, session.TokenHash, session.IPAddress, session.UserAgent,
		formatTime(session.CreatedAt), expiresAt,
	)
	return err
}

func (s *Store) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	session := &core.Session{}
	var (
		createdAt string
		expiresAt sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, account_id, token_hash, ip_address, user_agent, created_at, expires_at
		 FROM sessions WHERE token_hash = ?`, tokenHash,
	).Scan(&session.ID, &session.AccountID, &session.TokenHash, &session.IPAddress, &session.UserAgent, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrSessionNotFound
		}
		return nil, err
	}

	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		if session.ExpiresAt, err = parseTime(expiresAt.String); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (s *Store) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	return err
}
