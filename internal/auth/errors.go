package auth

import "errors"

var (
	ErrNotFound           = errors.New("auth: institute not found")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrAccountDisabled    = errors.New("auth: account is deactivated")
	ErrNotVerified        = errors.New("auth: institute is not verified")
	ErrPasswordMismatch   = errors.New("auth: current password is incorrect")
)
