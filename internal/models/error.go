package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Authentication errors
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrWeakPassword      = errors.New("password does not meet minimum length")
	ErrRateLimited       = errors.New("too many failed login attempts")
)
