package domain

import "errors"

var (
	// common errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// auth-specific errors
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
