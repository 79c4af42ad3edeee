package services

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrTwoFactorRequired      = errors.New("two-factor code required")
	ErrTooManyLoginAttempts   = errors.New("too many login attempts")
	ErrEmailTaken             = errors.New("email already registered")
	ErrUserNotFound           = errors.New("user not found")
	ErrUnauthenticated        = errors.New("not authenticated")
	ErrTwoFactorNotSetUp      = errors.New("2FA setup not found")
	ErrTwoFactorAlreadyActive = errors.New("2FA is already enabled")
	ErrInvalidTwoFactorCode   = errors.New("invalid 2FA code")
	ErrVaultItemNotFound      = errors.New("vault item not found")
)
