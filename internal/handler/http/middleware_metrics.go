package http

import "net/http"

const unmatchedRoute = "unmatched"

// withMetrics records request count, latency and in-flight gauge. Requests
// are labelled by chi route pattern so that path parameters do not explode
// label cardinality.
func (h *Handler) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		done := h.metrics.Started()
		mw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(mw, r)

		done(r.Method, routePattern(r), mw.statusCode())
	})
}
