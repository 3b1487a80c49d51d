package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/app"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/go-chi/httprate"
)

// newLoginLimiter throttles login attempts per peer address. Forwarding
// headers are ignored because they are trivially spoofed. A non-positive
// limit or window disables throttling.
func (h *Handler) newLoginLimiter(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			h.loginRateLimited(w, r, window)
		}),
	)
}

// loginRateLimited answers 429 in the error envelope.
func (h *Handler) loginRateLimited(w http.ResponseWriter, r *http.Request, window time.Duration) {
	retryAfter := w.Header().Get("Retry-After")
	if retryAfter == "" {
		retryAfter = strconv.Itoa(int(window.Seconds()))
		w.Header().Set("Retry-After", retryAfter)
	}

	logger.FromRequest(r).Warn().
		Str("remote_addr", r.RemoteAddr).
		Str("retry_after", retryAfter).
		Msg("login rate limit exceeded")
	if h.metrics != nil {
		h.metrics.LoginRateLimited()
	}

	writeError(w, r, http.StatusTooManyRequests, app.MsgTooManyLoginAttempts, nil)
}
