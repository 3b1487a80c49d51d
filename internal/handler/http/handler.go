package http

import (
	"net/http"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/observability"
	"github.com/MKhiriev/go-todo-keeper/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

type Handler struct {
	services *service.Services
	cfg      config.Server

	rateLimitLogin func(http.Handler) http.Handler
	metrics        *observability.HTTPMetrics

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	h := &Handler{
		services: services,
		cfg:      cfg,
		metrics:  observability.NewHTTPMetrics(prometheus.DefaultRegisterer),
		logger:   logger,
	}
	h.rateLimitLogin = h.newLoginLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)

	return h
}
