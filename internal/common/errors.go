// Package common defines the sentinel errors shared across vidstream layers.
// Callers should use errors.Is to match these values; the HTTP layer maps
// them to status codes.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors. All token verification failures collapse into
	// ErrInvalidToken so the caller cannot tell which check failed.
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWrongPassword      = errors.New("incorrect password")
	ErrAlreadyLoggedIn    = errors.New("you are already a logged in user")
	ErrAccessTokenValid   = errors.New("access token not expired")
	ErrRefreshTokenAbsent = errors.New("refresh token not found")
)
