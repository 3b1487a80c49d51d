// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware while looking for an
// access token. Callers can match against them with [errors.Is].
var (
	// ErrNoAccessToken is returned when neither the accessToken cookie nor
	// the "Authorization" header carries a token.
	ErrNoAccessToken = errors.New("no access token in cookie or `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrNoRefreshToken is returned by the refresh route when neither the
	// refreshToken cookie nor the request body carries a token.
	ErrNoRefreshToken = errors.New("no refresh token in cookie or body")

	// ErrNoPrincipal is returned when a protected handler runs without an
	// authenticated user in its context.
	ErrNoPrincipal = errors.New("no authenticated user in request context")
)
