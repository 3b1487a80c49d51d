// Package grpc implements the gRPC side of go-todo-keeper: the standard
// grpc.health.v1 service reporting whether the process is serving.
package grpc

import (
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name under which the application reports its own
// health, next to the empty overall status.
const ServiceName = "todokeeper.v1.TodoKeeper"

// Handler is the root gRPC transport handler.
//
// It owns the health server and keeps references to the service layer and
// logger. A handler instance is created once at startup and shared by the
// gRPC server.
type Handler struct {
	services *service.Services
	health   *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] reporting SERVING for both the overall
// status and [ServiceName].
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &Handler{
		services: services,
		health:   healthServer,
		logger:   logger,
	}
}

// Register attaches the handler's services to server.
func (h *Handler) Register(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, h.health)
}

// Shutdown switches every status to NOT_SERVING so that probes stop routing
// traffic while the server drains.
func (h *Handler) Shutdown() {
	h.logger.Info().Msg("gRPC health set to NOT_SERVING")
	h.health.Shutdown()
}
