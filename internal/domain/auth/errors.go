package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrInvalidCode        = errors.New("invalid or expired login code")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
