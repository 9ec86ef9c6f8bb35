package domain

import "errors"

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation")
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
