// Package common defines shared constants and sentinel errors used across
// the layers of itemvault. Callers should use errors.Is to match these
// values; the HTTP boundary maps each of them to a status code.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Credential errors. Unknown username and wrong PIN deliberately share
	// one sentinel so the login surface is not enumerable.
	ErrInvalidCredentials = errors.New("invalid username or pin")
	ErrAccountInactive    = errors.New("user account is not active")
	ErrDuplicateUsername  = errors.New("username already taken")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// AuthHeaderName is the HTTP header carrying the bearer access token.
const AuthHeaderName = "Authorization"

// BearerPrefix is the expected scheme prefix on the Authorization header.
const BearerPrefix = "Bearer"
