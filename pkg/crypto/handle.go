package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	MinSecretLength = 32
	handleIssuer    = "gate"
)

var (
	ErrSecretTooShort = errors.New("handle secret must be at least 32 characters")
	ErrInvalidHandle  = errors.New("invalid session handle")
)

// HandleSigner wraps raw session tokens into HS256 JWTs so the client
// only ever holds a value the server signed. The raw token travels in the
// jti claim and is looked up server-side after verification.
type HandleSigner struct {
	key []byte
	now func() time.Time
}

func NewHandleSigner(secret string) (*HandleSigner, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &HandleSigner{key: []byte(secret), now: time.Now}, nil
}

// Sign returns a handle for token. A non-zero expiresAt is carried as exp.
func (h *HandleSigner) Sign(token string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:       token,
		Issuer:   handleIssuer,
		IssuedAt: jwt.NewNumericDate(h.now()),
	}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign handle: %w", err)
	}
	return signed, nil
}

// Parse verifies handle and returns the raw token it carries. Every
// verification failure collapses into ErrInvalidHandle.
func (h *HandleSigner) Parse(handle string) (string, error) {
	if handle == "" {
		return "", ErrInvalidHandle
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(handleIssuer),
		jwt.WithTimeFunc(h.now),
	)

	claims := &jwt.RegisteredClaims{}
	token, err := parser.ParseWithClaims(handle, claims, func(*jwt.Token) (any, error) {
		return h.key, nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		return "", ErrInvalidHandle
	}

	return claims.ID, nil
}
