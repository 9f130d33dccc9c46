package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORTS
// ============================================

// AccountStore is the durable, uniqueness-enforcing repository of accounts.
//
// CreateAccount must be a single atomic check-and-insert: when an account with
// the same username OR the same email exists it returns ErrAccountExists and
// persists nothing. Implementations assign ID and CreatedAt.
type AccountStore interface {
	CreateAccount(ctx context.Context, a *Account) error
	FindAccountByUsername(ctx context.Context, username string) (*Account, error)
	FindAccountByID(ctx context.Context, id string) (*Account, error)
}

// SessionStore keeps server-side session state keyed by token hash.
//
// GetSessionByHash returns ErrSessionNotFound when no session matches.
// DeleteSessionByHash is idempotent.
type SessionStore interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error)
	DeleteSessionByHash(ctx context.Context, tokenHash string) error
}

// ============================================
// CACHE PORT
// ============================================

// Cache defines session caching operations
type Cache interface {
	Get(tokenHash string) (*Session, error)
	Set(tokenHash string, session *Session) error
	Delete(tokenHash string) error
}

// CacheWithStats extends Cache with statistics tracking
type CacheWithStats interface {
	Cache
	Stats() CacheStats
}

// CacheConfig configures cache behavior
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

// ============================================
// AUTHENTICATOR (for HTTP adapters)
// ============================================

// Authenticator provides the account and session operations HTTP adapters
// are built on.
//
// Authorize and GetSession return ErrUnauthenticated for a missing, forged,
// unknown or terminated handle. Callers treat that as "send to login", never
// as a hard error. Logout never fails for a bad handle.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*Account, error)
	Login(ctx context.Context, input LoginInput, ipAddress, userAgent string) (*LoginResult, error)
	Logout(ctx context.Context, handle string) error
	Authorize(ctx context.Context, handle string) (string, error)
	GetSession(ctx context.Context, handle string) (*SessionData, error)
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(auth Authenticator, sessions SessionConfig) error
}

// SessionConfig controls session lifetime.
//
// A zero MaxAge means sessions never expire on a timer and only end on
// logout.
type SessionConfig struct {
	MaxAge time.Duration
}
