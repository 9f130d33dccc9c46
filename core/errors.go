package core

import "errors"

// Account errors
var (
	ErrAccountExists      = errors.New("user already exists") // 400 Bad Request
	ErrAccountNotFound    = errors.New("account not found")   // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid credentials") // 401 Unauthorized
)

// Session errors
var (
	ErrUnauthenticated = errors.New("unauthenticated")   // redirect to login
	ErrSessionNotFound = errors.New("session not found") // treated as unauthenticated
	ErrSessionExpired  = errors.New("session expired")   // treated as unauthenticated
	ErrCacheNotFound   = errors.New("session not found in cache")
)

// Validation errors (client input)
var (
	ErrUsernameRequired = errors.New("username is required") // 400
	ErrEmailRequired    = errors.New("email is required")    // 400
	ErrPasswordRequired = errors.New("password is required") // 400
)

// Config errors (server-side configuration)
var (
	ErrAccountStoreRequired = errors.New("account store is required") // 500
	ErrHTTPAdapterRequired  = errors.New("http adapter is required")  // 500
	ErrSecretRequired       = errors.New("secret is required")        // 500
	ErrSecretTooShort       = errors.New("secret too short")          // 500
)

// IsValidation reports whether err is a client input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUsernameRequired) ||
		errors.Is(err, ErrEmailRequired) ||
		errors.Is(err, ErrPasswordRequired)
}
