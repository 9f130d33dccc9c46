package gate

import (
	"fmt"
	"time"

	"github.com/traveleasy/gate/adapters/memory"
	"github.com/traveleasy/gate/core"
	"github.com/traveleasy/gate/pkg/cache"
	"github.com/traveleasy/gate/pkg/crypto"
	"github.com/traveleasy/gate/services"
)

// interfaces
type (
	AccountStore  = core.AccountStore
	SessionStore  = core.SessionStore
	Cache         = core.Cache
	Authenticator = core.Authenticator
	HTTPAdapter   = core.HTTPAdapter

	CredentialHandler = crypto.CredentialHandler
)

// structs
type (
	SessionConfig = core.SessionConfig
	CacheConfig   = core.CacheConfig
	CacheStats    = core.CacheStats
)

type (
	Account       = core.Account
	Session       = core.Session
	SessionData   = core.SessionData
	RegisterInput = core.RegisterInput
	LoginInput    = core.LoginInput
	LoginResult   = core.LoginResult
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache = cache.NewInMemoryCache
	NewArgon2        = crypto.NewArgon2
)

const (
	DefaultCacheTTL     = cache.DefaultTTL
	DefaultCacheMaxSize = cache.DefaultMaxSize
)

var (
	ErrAccountExists      = core.ErrAccountExists
	ErrAccountNotFound    = core.ErrAccountNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

var (
	ErrUnauthenticated = core.ErrUnauthenticated
	ErrSessionNotFound = core.ErrSessionNotFound
	ErrSessionExpired  = core.ErrSessionExpired
)

var (
	ErrUsernameRequired = core.ErrUsernameRequired
	ErrEmailRequired    = core.ErrEmailRequired
	ErrPasswordRequired = core.ErrPasswordRequired
)

var (
	ErrAccountStoreRequired = core.ErrAccountStoreRequired
	ErrHTTPAdapterRequired  = core.ErrHTTPAdapterRequired
	ErrSecretRequired       = core.ErrSecretRequired
	ErrSecretTooShort       = core.ErrSecretTooShort
)

// Config wires a Gate. Only Secret, Accounts and HTTP are required.
type Config struct {
	// Secret signs session handles. At least 32 characters.
	Secret string

	Accounts AccountStore
	HTTP     HTTPAdapter

	// Sessions defaults to an in-memory store owned by this Gate. A store
	// passed here may be shared with other processes.
	Sessions SessionStore

	// Credentials defaults to Plaintext.
	Credentials CredentialHandler

	// SessionConfig defaults to sessions that never expire on a timer.
	SessionConfig *SessionConfig

	// CacheAdapter puts a read cache in front of Sessions. Without one, only
	// the default in-memory store gets a cache: a shared store must see
	// every logout, so caching it is opt-in.
	CacheAdapter Cache
	DisableCache bool

	// StoreTimeout bounds each store call. Zero means no bound.
	StoreTimeout time.Duration
}

// Gate is the assembled authenticator. It satisfies Authenticator.
type Gate struct {
	*services.AuthService

	SessionManager *services.SessionManager
	SessionConfig  SessionConfig
	Cache          Cache
}

func New(config Config) (*Gate, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < crypto.MinSecretLength {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, crypto.MinSecretLength)
	}
	if config.Accounts == nil {
		return nil, ErrAccountStoreRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	sessionStore := config.Sessions
	if sessionStore == nil {
		sessionStore = memory.NewSessionStore()
	}

	cacheAdapter := config.CacheAdapter
	if cacheAdapter == nil && config.Sessions == nil && !config.DisableCache {
		cacheAdapter = NewInMemoryCache(CacheConfig{
			TTL:     cache.DefaultTTL,
			MaxSize: cache.DefaultMaxSize,
		})
	}
	if config.DisableCache {
		cacheAdapter = nil
	}

	var sessionConfig SessionConfig
	if config.SessionConfig != nil {
		sessionConfig = *config.SessionConfig
	}

	credentials := config.Credentials
	if credentials == nil {
		credentials = crypto.Plaintext{}
	}

	handles, err := crypto.NewHandleSigner(config.Secret)
	if err != nil {
		return nil, err
	}

	sessionManager := services.NewSessionManager(sessionConfig, sessionStore, cacheAdapter)
	auth := services.NewAuthService(config.Accounts, sessionManager, credentials, handles).
		WithStoreTimeout(config.StoreTimeout)

	g := &Gate{
		AuthService:    auth,
		SessionManager: sessionManager,
		SessionConfig:  sessionConfig,
		Cache:          cacheAdapter,
	}

	if err := config.HTTP.RegisterRoutes(g, sessionConfig); err != nil {
		return nil, err
	}

	return g, nil
}

// CacheStats reports the session cache counters. ok is false when the Gate
// runs without a cache or the cache does not track stats.
func (g *Gate) CacheStats() (stats CacheStats, ok bool) {
	c, ok := g.Cache.(core.CacheWithStats)
	if !ok {
		return CacheStats{}, false
	}
	return c.Stats(), true
}
