package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory   = "memory"
	SessionStoreDatabase = "database"
	SessionStoreRedis    = "redis"

	CredentialPlaintext = "plaintext"
	CredentialArgon2id  = "argon2id"
)

type Config struct {
	Port   string
	Secret string

	// Exactly one account backend: DatabaseURL (PostgreSQL) wins over
	// SQLitePath.
	DatabaseURL string
	SQLitePath  string

	RedisAddr     string
	RedisPassword string

	SessionStore     string
	SessionMaxAge    time.Duration
	CredentialScheme string
	CookieSecure     bool
	StoreTimeout     time.Duration
}

// Load reads the environment after applying envFiles (default ".env").
// Missing env files are ignored; variables already set are never overridden.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	maxAge, err := getEnvAsDuration("SESSION_MAX_AGE", 0)
	if err != nil {
		return nil, err
	}
	storeTimeout, err := getEnvAsDuration("STORE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Secret:           getEnv("GATE_SECRET", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("SQLITE_PATH", "./data/gate.db"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		SessionStore:     strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		SessionMaxAge:    maxAge,
		CredentialScheme: strings.ToLower(getEnv("CREDENTIAL_SCHEME", CredentialPlaintext)),
		CookieSecure:     getEnvAsBool("COOKIE_SECURE", false),
		StoreTimeout:     storeTimeout,
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("GATE_SECRET is required")
	}

	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreDatabase, SessionStoreRedis:
	default:
		return fmt.Errorf("SESSION_STORE must be one of memory, database, redis; got %q", c.SessionStore)
	}

	switch c.CredentialScheme {
	case CredentialPlaintext, CredentialArgon2id:
	default:
		return fmt.Errorf("CREDENTIAL_SCHEME must be plaintext or argon2id; got %q", c.CredentialScheme)
	}

	if c.SessionMaxAge < 0 {
		return errors.New("SESSION_MAX_AGE must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("30m") or bare seconds ("1800").
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
