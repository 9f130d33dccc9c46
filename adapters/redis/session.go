package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/traveleasy/gate/core"
)

const DefaultKeyPrefix = "gate:session:"

// SessionStore keeps sessions as JSON blobs under <prefix><token hash>.
// Keys only carry a TTL when the session expires.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ core.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, prefix: DefaultKeyPrefix, now: time.Now}
}

// WithPrefix changes the key namespace.
func (s *SessionStore) WithPrefix(prefix string) *SessionStore {
	s.prefix = prefix
	return s
}

// record mirrors core.Session but keeps the token hash, which core.Session
// hides from JSON.
type record struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	TokenHash string    `json:"tokenHash"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

func (s *SessionStore) key(tokenHash string) string {
	return s.prefix + tokenHash
}

func (s *SessionStore) CreateSession(ctx context.Context, session *core.Session) error {
	payload, err := json.Marshal(record(*session))
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return core.ErrSessionExpired
		}
	}

	return s.client.Set(ctx, s.key(session.TokenHash), payload, ttl).Err()
}

func (s *SessionStore) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	payload, err := s.client.Get(ctx, s.key(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrSessionNotFound
		}
		return nil, err
	}

	var r record
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	session := core.Session(r)
	return &session, nil
}

func (s *SessionStore) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	return s.client.Del(ctx, s.key(tokenHash)).Err()
}
