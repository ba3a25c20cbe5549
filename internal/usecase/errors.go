package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
