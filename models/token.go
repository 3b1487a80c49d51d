package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Token type markers stored in the "typ" claim. They keep an access token
// from being accepted where a refresh token is expected and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AccessClaims is the claim set of a short-lived access token.
type AccessClaims struct {
	jwt.RegisteredClaims

	Email    string `json:"email"`
	Username string `json:"username"`
	Type     string `json:"typ"`
}

// UserID parses the subject claim as the owner's id.
func (c AccessClaims) UserID() (int64, error) {
	return subjectToUserID(c.Subject)
}

// RefreshClaims is the claim set of a long-lived refresh token. It carries
// only the user id and a unique token id.
type RefreshClaims struct {
	jwt.RegisteredClaims

	Type string `json:"typ"`
}

// UserID parses the subject claim as the owner's id.
func (c RefreshClaims) UserID() (int64, error) {
	return subjectToUserID(c.Subject)
}

// TokenPair is a freshly minted access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func subjectToUserID(subject string) (int64, error) {
	if subject == "" {
		return 0, fmt.Errorf("empty subject")
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting subject to user id: %w", err)
	}

	return userID, nil
}
