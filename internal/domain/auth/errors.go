package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid worker code or pin")
	ErrInvalidToken       = errors.New("invalid or missing token")
)
