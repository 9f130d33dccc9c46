package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	SessionTokenBytes = 32 // 256 bits
	SessionIDLength   = 22 // 132 bits

	sessionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
)

// SessionToken is a freshly drawn session secret and the key its session
// is stored under.
type SessionToken struct {
	Raw  string // travels inside the signed handle, never stored
	Hash string
}

func NewSessionToken() (*SessionToken, error) {
	buf := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}

	raw := base64.RawURLEncoding.EncodeToString(buf)
	return &SessionToken{Raw: raw, Hash: HashToken(raw)}, nil
}

// HashToken returns the hex SHA-256 digest used to key sessions.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NewSessionID returns a public session identifier. The alphabet has 64
// symbols, so each random byte maps to one symbol without bias.
func NewSessionID() (string, error) {
	buf := make([]byte, SessionIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = sessionIDAlphabet[b&63]
	}
	return string(buf), nil
}
