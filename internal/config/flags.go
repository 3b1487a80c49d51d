package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses configuration flags from args into a fresh
// [StructuredConfig]. Unset flags stay zero so they never override values
// from other sources.
//
// Flags:
//
//	-a              HTTP server address in format [host]:[port]
//	-grpc-address   gRPC health server address in format [host]:[port]
//	-d              database DSN
//	-c/-config      JSON config file path
//	-access-secret  access token signing secret
//	-refresh-secret refresh token signing secret
//	-access-ttl     access token lifetime (e.g. "15m")
//	-refresh-ttl    refresh token lifetime (e.g. "240h")
//	-token-issuer   token issuer name
//	-request-timeout request timeout (e.g. "30s")
//	-log-level      zerolog level
//	-redis          Redis address of the todo cache
//	-sentry-dsn     Sentry DSN
//	-server         API base address used by the client
//	-state          client SQLite state file
func parseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	cfg := &StructuredConfig{}

	fs := flag.NewFlagSet("go-todo-keeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.App.AccessTokenSecret, "access-secret", "", "Access token signing secret")
	fs.StringVar(&cfg.App.RefreshTokenSecret, "refresh-secret", "", "Refresh token signing secret")
	fs.DurationVar(&cfg.App.AccessTokenTTL, "access-ttl", 0, "Access token lifetime (e.g., 15m)")
	fs.DurationVar(&cfg.App.RefreshTokenTTL, "refresh-ttl", 0, "Refresh token lifetime (e.g., 240h)")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&cfg.Storage.Cache.Address, "redis", "", "Redis address")
	fs.StringVar(&cfg.Observability.SentryDSN, "sentry-dsn", "", "Sentry DSN")
	fs.StringVar(&cfg.Adapter.HTTPAddress, "server", "", "API base address")
	fs.StringVar(&cfg.Client.StateDSN, "state", "", "Client state file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.Server.GRPCAddress = grpcServerAddress.String()

	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host binds all interfaces. Any other host must be "localhost" or
// a valid IP address.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}

var _ flag.Value = (*NetAddress)(nil)
