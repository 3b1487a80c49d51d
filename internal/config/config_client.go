package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the API base address used by the client.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// AutoRefresh enables a single refresh-and-retry on 401 responses.
	AutoRefresh bool
}

// ClientStorage contains local state settings for the client.
type ClientStorage struct {
	// DSN is the SQLite file holding the persisted session and todos.
	DSN string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Adapter ClientAdapter
	Storage ClientStorage
	// LogFile receives client logs; empty means next to the executable.
	LogFile string
	// LogLevel is a zerolog level name.
	LogLevel string
	// RefreshInterval is how often the browse view reloads todos.
	RefreshInterval time.Duration
}

// GetClientConfig builds and validates a client-specific config view from
// the merged structured configuration. Server-only settings are not
// validated here.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			AutoRefresh:    cfg.Client.AutoRefresh,
		},
		Storage: ClientStorage{
			DSN: cfg.Client.StateDSN,
		},
		LogFile:         cfg.Client.LogFile,
		LogLevel:        cfg.App.LogLevel,
		RefreshInterval: cfg.Client.RefreshInterval,
	}

	return clientCfg, clientCfg.validate()
}
