package service

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown identity and a wrong
	// password so that callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid user credentials")
	ErrIdentityRequired   = errors.New("username or email is required")

	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
	ErrUnauthorized = errors.New("unauthorized")

	ErrTokenCreationFailed = errors.New("token creation failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
