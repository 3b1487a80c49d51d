package server

import (
	"context"
	"errors"
	"net"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	myGRPC "github.com/MKhiriev/go-todo-keeper/internal/handler/grpc"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler
	address string

	server *grpc.Server

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpc_prometheus.UnaryServerInterceptor),
		grpc.ChainStreamInterceptor(grpc_prometheus.StreamServerInterceptor),
	)
	handler.Register(server)
	grpc_prometheus.Register(server)

	return &grpcServer{
		handler: handler,
		address: cfg.GRPCAddress,
		server:  server,
		logger:  logger,
	}
}

func (g *grpcServer) listen() (net.Listener, error) {
	return net.Listen("tcp", g.address)
}

func (g *grpcServer) serve(listener net.Listener) error {
	if err := g.server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		g.logger.Err(err).Str("func", "*grpcServer.serve").Msg("gRPC server stopped")
		return err
	}
	return nil
}

// Shutdown reports NOT_SERVING first and then drains in-flight calls. When
// ctx expires before draining finishes, the server is stopped hard.
func (g *grpcServer) Shutdown(ctx context.Context) {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		g.server.Stop()
	}
}
