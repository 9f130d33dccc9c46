package core

import "time"

// Account represents a registered identity
//
// This is both the "who" and the "how they prove it": username and email are
// unique across the store, Credential is whatever the configured
// CredentialHandler produced at registration time.
type Account struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Credential string    `json:"-"` // Never expose in JSON
	CreatedAt  time.Time `json:"createdAt"`
}

// Session represents an active login session
//
// A session only references its account by ID. It never owns the account.
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	TokenHash string    `json:"-"` // Never expose in JSON (security!)
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"` // zero value: no expiry
}

// Expired reports whether the session carries an expiry that has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// SessionData combines account and session info
// The model handed to protected handlers
type SessionData struct {
	Account *Account `json:"account"`
	Session *Session `json:"session"`
}

// RegisterInput contains the data needed to register a new account
type RegisterInput struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginInput contains the credentials for authentication
type LoginInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginResult contains the authenticated account, its new session and
// the signed handle the client presents on later requests
type LoginResult struct {
	Account *Account `json:"account"`
	Session *Session `json:"session"`
	Handle  string   `json:"-"`
}

// CreateSessionResult is what SessionManager.Create hands back: the stored
// session and the raw token (never persisted)
type CreateSessionResult struct {
	Session *Session `json:"session"`
	Token   string   `json:"token"`
}
