package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/handler"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful drain of all servers.
const shutdownTimeout = 10 * time.Second

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := new(server)

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		servers.gRPCServer = newGRPCServer(handlers.GRPC, cfg, logger)
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	servers.logger = logger

	return servers, nil
}

// RunServer binds every configured listener before serving, so an address
// in use fails fast. It returns once ctx is cancelled and all servers have
// drained, or as soon as one of them fails.
func (s *server) RunServer(ctx context.Context) error {
	type runner struct {
		name     string
		listener net.Listener
		serve    func(net.Listener) error
	}

	var runners []runner
	closeAll := func() {
		for _, r := range runners {
			_ = r.listener.Close()
		}
	}

	if s.httpServer != nil {
		l, err := s.httpServer.listen()
		if err != nil {
			return fmt.Errorf("error listening HTTP on %s: %w", s.httpServer.server.Addr, err)
		}
		runners = append(runners, runner{name: "HTTP", listener: l, serve: s.httpServer.serve})
	}
	if s.gRPCServer != nil {
		l, err := s.gRPCServer.listen()
		if err != nil {
			closeAll()
			return fmt.Errorf("error listening gRPC on %s: %w", s.gRPCServer.address, err)
		}
		runners = append(runners, runner{name: "GRPC", listener: l, serve: s.gRPCServer.serve})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range runners {
		s.logger.Info().Str("address", r.listener.Addr().String()).Msgf("Launching %s server", r.name)
		g.Go(func() error {
			return r.serve(r.listener)
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.Shutdown(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

func (s *server) Shutdown(ctx context.Context) {
	// finish HTTP server
	if s.httpServer != nil {
		s.httpServer.Shutdown(ctx)
	}

	// finish gRPC server
	if s.gRPCServer != nil {
		s.gRPCServer.Shutdown(ctx)
	}
}
