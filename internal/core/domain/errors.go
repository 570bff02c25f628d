package domain

import "errors"

// Startup errors. The process must refuse to start on either.
var (
	ErrSecretUnavailable    = errors.New("secret unavailable")
	ErrConfigurationMissing = errors.New("configuration missing")
)

// Request-scoped store and service errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrUnknownVariant     = errors.New("unknown user variant")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Token validation errors. They all render as the same unauthorized response;
// the distinction is only logged.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
)
