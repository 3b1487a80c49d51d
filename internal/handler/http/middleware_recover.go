package http

import (
	"net/http"
	"runtime/debug"

	"github.com/MKhiriev/go-todo-keeper/internal/app"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/observability"
)

// withRecover turns a panicking handler into a 500 envelope. The panic value
// and stack are logged and sent to Sentry.
func (h *Handler) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}

			stack := debug.Stack()
			logger.FromRequest(r).Error().
				Str("func", "withRecover").
				Interface("panic", recovered).
				Bytes("stack", stack).
				Msg("recovered from panic")
			observability.CapturePanic(recovered, stack, map[string]any{
				"method": r.Method,
				"uri":    r.RequestURI,
			})

			writeError(w, r, http.StatusInternalServerError, app.MsgInternalServerError, nil)
		}()

		next.ServeHTTP(w, r)
	})
}
