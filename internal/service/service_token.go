// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/golang-jwt/jwt/v5"
)

// tokenService is the concrete implementation of TokenService.
//
// Access tokens are stateless. Refresh tokens are persisted as the single
// current value on the user row, and a rotation only succeeds while the
// presented token is still that value.
type tokenService struct {
	userRepository store.UserRepository

	accessSecret  string
	refreshSecret string
	issuer        string

	accessTTL  time.Duration
	refreshTTL time.Duration

	logger *logger.Logger
}

// NewTokenService constructs a TokenService signing with the secrets and
// lifetimes from cfg.
func NewTokenService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) TokenService {
	return &tokenService{
		userRepository: userRepository,
		accessSecret:   cfg.AccessTokenSecret,
		refreshSecret:  cfg.RefreshTokenSecret,
		issuer:         cfg.TokenIssuer,
		accessTTL:      cfg.AccessTokenTTL,
		refreshTTL:     cfg.RefreshTokenTTL,
		logger:         logger,
	}
}

func (t *tokenService) IssueAccessToken(user models.User) (string, error) {
	token, err := utils.GenerateAccessToken(t.issuer, user, t.accessTTL, t.accessSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

func (t *tokenService) IssueRefreshToken(user models.User) (string, error) {
	token, err := utils.GenerateRefreshToken(t.issuer, user.ID, t.refreshTTL, t.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

func (t *tokenService) VerifyAccess(token string) (models.AccessClaims, error) {
	claims, err := utils.ParseAccessToken(token, t.accessSecret, t.issuer)
	if err != nil {
		return models.AccessClaims{}, classifyTokenError(err)
	}

	return claims, nil
}

func (t *tokenService) VerifyRefresh(token string) (models.RefreshClaims, error) {
	claims, err := utils.ParseRefreshToken(token, t.refreshSecret, t.issuer)
	if err != nil {
		return models.RefreshClaims{}, classifyTokenError(err)
	}

	return claims, nil
}

// IssueTokenPair mints a new pair for user and persists the refresh token.
// Only the refresh_token column is written.
func (t *tokenService) IssueTokenPair(ctx context.Context, user models.User) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	pair, err := t.mintPair(user)
	if err != nil {
		log.Err(err).Str("func", "*tokenService.IssueTokenPair").Int64("user_id", user.ID).Msg("error minting token pair")
		return models.TokenPair{}, err
	}

	if err = t.userRepository.UpdateRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		log.Err(err).Str("func", "*tokenService.IssueTokenPair").Int64("user_id", user.ID).Msg("error storing refresh token")
		return models.TokenPair{}, fmt.Errorf("error storing refresh token: %w", err)
	}

	return pair, nil
}

// Rotate verifies refreshToken, checks that it is the one currently stored
// for its user and replaces it with a freshly minted one in a single
// compare-and-set write. Losing a concurrent rotation counts as reuse.
func (t *tokenService) Rotate(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if refreshToken == "" {
		log.Warn().Str("func", "*tokenService.Rotate").Msg("refresh token is missing")
		return models.TokenPair{}, ErrUnauthorized
	}

	claims, err := t.VerifyRefresh(refreshToken)
	if err != nil {
		log.Warn().Err(err).Str("func", "*tokenService.Rotate").Msg("invalid refresh token")
		return models.TokenPair{}, err
	}

	userID, err := claims.UserID()
	if err != nil {
		log.Warn().Err(err).Str("func", "*tokenService.Rotate").Msg("refresh token has no usable subject")
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	user, err := t.userRepository.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrUserNotFound) {
		log.Warn().Str("func", "*tokenService.Rotate").Int64("user_id", userID).Msg("refresh token of unknown user")
		return models.TokenPair{}, ErrTokenInvalid
	}
	if err != nil {
		log.Err(err).Str("func", "*tokenService.Rotate").Int64("user_id", userID).Msg("error looking up user")
		return models.TokenPair{}, fmt.Errorf("error looking up user: %w", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		log.Warn().Str("func", "*tokenService.Rotate").Int64("user_id", userID).Msg("refresh token is expired or used")
		return models.TokenPair{}, ErrTokenInvalid
	}

	pair, err := t.mintPair(user)
	if err != nil {
		log.Err(err).Str("func", "*tokenService.Rotate").Int64("user_id", userID).Msg("error minting token pair")
		return models.TokenPair{}, err
	}

	swapped, err := t.userRepository.SwapRefreshToken(ctx, userID, refreshToken, pair.RefreshToken)
	if err != nil {
		log.Err(err).Str("func", "*tokenService.Rotate").Int64("user_id", userID).Msg("error storing rotated refresh token")
		return models.TokenPair{}, fmt.Errorf("error storing rotated refresh token: %w", err)
	}
	if !swapped {
		log.Warn().Str("func", "*tokenService.Rotate").Int64("user_id", userID).Msg("refresh token was rotated concurrently")
		return models.TokenPair{}, ErrTokenInvalid
	}

	return pair, nil
}

// Authenticate verifies accessToken and loads its principal. A token whose
// user no longer exists is reported as ErrTokenInvalid.
func (t *tokenService) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	claims, err := t.VerifyAccess(accessToken)
	if err != nil {
		return models.User{}, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	user, err := t.userRepository.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, ErrTokenInvalid
	}
	if err != nil {
		return models.User{}, fmt.Errorf("error looking up token owner: %w", err)
	}

	return user.Public(), nil
}

func (t *tokenService) mintPair(user models.User) (models.TokenPair, error) {
	access, err := t.IssueAccessToken(user)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, err := t.IssueRefreshToken(user)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func classifyTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	}

	return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
}
