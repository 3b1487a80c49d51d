// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-todo-keeper/internal/app"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user, err := h.services.AuthService.Register(ctx, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().Int64("user_id", user.ID).Msg("user registered")
	writeResponse(w, r, http.StatusCreated, user, app.MsgUserRegistered)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	result, err := h.services.AuthService.Login(ctx, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().Int64("user_id", result.User.ID).Msg("user logged in")

	h.setAuthCookies(w, result.AccessToken, result.RefreshToken)
	writeResponse(w, r, http.StatusOK, result, app.MsgUserLoggedIn)
}

// refreshToken rotates the token pair. The refresh token is read from the
// cookie first and from the JSON body otherwise.
func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token := cookieValue(r, refreshTokenCookie)
	if token == "" {
		var req models.RefreshRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		token = strings.TrimSpace(req.RefreshToken)
	}

	if token == "" {
		log.Err(ErrNoRefreshToken).Msg("refresh rejected")
		writeError(w, r, http.StatusUnauthorized, app.MsgUnauthorized, nil)
		return
	}

	pair, err := h.services.TokenService.Rotate(ctx, token)
	if err != nil {
		writeServiceErrorWithMessage(w, r, err, app.MsgInvalidRefreshToken)
		return
	}

	h.setAuthCookies(w, pair.AccessToken, pair.RefreshToken)
	writeResponse(w, r, http.StatusOK, pair, app.MsgAccessTokenRefreshed)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	if err := h.services.AuthService.Logout(ctx, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.clearAuthCookies(w)
	writeResponse(w, r, http.StatusOK, struct{}{}, app.MsgUserLoggedOut)
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	user, err := h.services.AuthService.CurrentUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, user, app.MsgCurrentUserFetched)
}

// check is the unauthenticated health route.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	info := h.services.AppInfoService.Health(r.Context())
	writeResponse(w, r, http.StatusOK, info, info.Message)
}
