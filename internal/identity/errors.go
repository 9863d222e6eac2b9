package identity

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account has been deactivated")
	ErrEmailAlreadyExists = errors.New("an account with this email already exists")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed")
	ErrInvalidRole        = errors.New("invalid role")
)
