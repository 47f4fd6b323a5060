package model

import "errors"

var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Token errors
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")

	// Directory errors
	ErrDirectoryUnavailable = errors.New("user directory unavailable")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
