package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-todo-keeper/internal/app"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/service"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
)

// auth is an HTTP middleware that enforces access-token authentication.
//
// The token is taken from the accessToken cookie and, failing that, from an
// "Authorization: Bearer <token>" header. It is verified and its user
// resolved via [service.TokenService.Authenticate]; on success the user,
// stripped of secrets, is stored in the request context with
// [utils.WithUser].
//
// The middleware answers 401 in the following cases:
//   - no token was presented ("Unauthorized request");
//   - the token is malformed, expired or invalid, or its user no longer
//     exists ("Invalid access token").
//
// Expired and invalid tokens are logged differently but answered alike.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := getAccessToken(r)
		if err != nil {
			log.Err(err).Msg("request without access token")
			writeError(w, r, http.StatusUnauthorized, app.MsgUnauthorized, nil)
			return
		}

		ctx := r.Context()
		user, err := h.services.TokenService.Authenticate(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				log.Err(err).Msg("token expired")
				writeError(w, r, http.StatusUnauthorized, app.MsgInvalidAccessToken, nil)
			case errors.Is(err, service.ErrTokenInvalid):
				log.Err(err).Msg("error occurred during parsing token")
				writeError(w, r, http.StatusUnauthorized, app.MsgInvalidAccessToken, nil)
			default:
				writeServiceError(w, r, err)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUser(ctx, user)))
	})
}

// getAccessToken returns the access token carried by r. The cookie takes
// precedence over the "Authorization" header.
//
// It returns the following sentinel errors:
//   - [ErrNoAccessToken] if neither source carries a token.
//   - [ErrInvalidAuthorizationHeader] if the header is present but not of
//     the form "Bearer <token>".
func getAccessToken(r *http.Request) (string, error) {
	if token := cookieValue(r, accessTokenCookie); token != "" {
		return token, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoAccessToken
	}

	token, err := utils.ParseBearerToken(authHeader)
	if err != nil {
		return "", errors.Join(ErrInvalidAuthorizationHeader, err)
	}

	return token, nil
}

// principalID returns the id of the user stored by auth. It answers 401
// itself when the context carries no user.
func principalID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Err(ErrNoPrincipal).Msg("protected route reached without principal")
		writeError(w, r, http.StatusUnauthorized, app.MsgUnauthorized, nil)
		return 0, false
	}
	return userID, true
}
