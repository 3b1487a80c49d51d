package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Init builds the router of the REST API. Every route lives under /api/v1
// except the prometheus exposition at /metrics.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, h.withRecover, h.withMetrics)
	router.Use(middleware.Compress(5, "application/json"))
	if h.cfg.BodyLimit > 0 {
		router.Use(middleware.RequestSize(h.cfg.BodyLimit))
	}
	if h.cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.cfg.RequestTimeout))
	}

	router.NotFound(routeNotFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			// routes without authorization
			r.Post("/register", h.register)
			r.With(h.rateLimitLogin).Post("/login", h.login)
			r.Post("/refresh-token", h.refreshToken)
			r.Get("/check", h.check)

			r.Group(func(r chi.Router) {
				r.Use(h.auth)
				r.Post("/logout", h.logout)
				r.Get("/current-user", h.currentUser)
				r.Post("/avatar/upload-url", h.avatarUploadURL)
				r.Patch("/avatar", h.confirmAvatar)
			})
		})

		r.Route("/todos", func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/", h.listTodos)
			r.Post("/", h.createTodo)
			r.Get("/filtered", h.listFilteredTodos)
			r.Get("/{id}", h.getTodo)
			r.Put("/{id}", h.updateTodo)
			r.Delete("/{id}", h.deleteTodo)
			r.Put("/{id}/complete", h.completeTodo)
		})
	})

	return router
}
