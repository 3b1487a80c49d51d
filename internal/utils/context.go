// Package utils provides general-purpose helpers shared across the
// application: typed context keys, JSON response writing, JWT signing and
// parsing, password hashing, identifier generation and the HTTP client used
// by the client-side adapter.
package utils

import (
	"context"

	"github.com/MKhiriev/go-todo-keeper/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// UserCtxKey is the key under which the authenticated principal is stored.
var UserCtxKey = contextKey("user")

// WithUser returns a copy of ctx carrying user as the authenticated
// principal. Secrets are stripped before the user is stored.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, UserCtxKey, user.Public())
}

// GetUserFromContext retrieves the principal stored by [WithUser].
//
// Example usage:
//
//	user, ok := utils.GetUserFromContext(ctx)
//	if !ok {
//	    // handle missing principal
//	}
func GetUserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(models.User)
	return user, ok
}

// GetUserIDFromContext is a shortcut returning only the principal's id.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return 0, false
	}
	return user.ID, true
}
