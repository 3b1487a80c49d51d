package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrWrongTokenType is returned when a token of one kind is presented where
// the other kind is expected.
var ErrWrongTokenType = errors.New("wrong token type")

// errInvalidJWTParams is returned when a token cannot be generated because a
// mandatory parameter is empty or zero.
var errInvalidJWTParams = errors.New("invalid params for generating JWT Token")

// GenerateAccessToken creates a signed HS256 access token for user.
//
// The token includes the following claims:
//   - iss: tokenIssuer
//   - sub: the user id encoded as a string
//   - iat, exp: now and now + ttl
//   - email, username: copied from user
//   - typ: "access"
func GenerateAccessToken(issuer string, user models.User, ttl time.Duration, signKey string) (string, error) {
	if issuer == "" || ttl <= 0 || signKey == "" {
		return "", errInvalidJWTParams
	}

	now := time.Now()
	claims := models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:    user.Email,
		Username: user.Username,
		Type:     models.TokenTypeAccess,
	}

	return signHS256(claims, signKey)
}

// GenerateRefreshToken creates a signed HS256 refresh token carrying only the
// user id. A random jti makes every token unique even when two are minted
// within the same second.
func GenerateRefreshToken(issuer string, userID int64, ttl time.Duration, signKey string) (string, error) {
	if issuer == "" || ttl <= 0 || signKey == "" {
		return "", errInvalidJWTParams
	}

	now := time.Now()
	claims := models.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Type: models.TokenTypeRefresh,
	}

	return signHS256(claims, signKey)
}

// ParseAccessToken verifies signature, issuer and expiry of tokenString and
// returns its claims. Expiry failures wrap [jwt.ErrTokenExpired].
func ParseAccessToken(tokenString, signKey, issuer string) (models.AccessClaims, error) {
	var claims models.AccessClaims
	if err := parseHS256(tokenString, &claims, signKey, issuer); err != nil {
		return models.AccessClaims{}, err
	}
	if claims.Type != models.TokenTypeAccess {
		return models.AccessClaims{}, ErrWrongTokenType
	}

	return claims, nil
}

// ParseRefreshToken is the refresh-token counterpart of [ParseAccessToken].
func ParseRefreshToken(tokenString, signKey, issuer string) (models.RefreshClaims, error) {
	var claims models.RefreshClaims
	if err := parseHS256(tokenString, &claims, signKey, issuer); err != nil {
		return models.RefreshClaims{}, err
	}
	if claims.Type != models.TokenTypeRefresh {
		return models.RefreshClaims{}, ErrWrongTokenType
	}

	return claims, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

func signHS256(claims jwt.Claims, signKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return signed, nil
}

func parseHS256(tokenString string, claims jwt.Claims, signKey, issuer string) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	return nil
}
