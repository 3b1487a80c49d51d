package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
)

// ClientStorages groups the client-side repositories.
type ClientStorages struct {
	// StateRepository holds the serialized session and todo snapshots.
	StateRepository StateRepository

	db *DB
}

// NewClientStorages opens (creating if needed) the SQLite state file named
// by cfg.DSN, runs its migrations and wires the state repository.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Debug().Msg("creating client storages...")

	db, err := NewConnectSQLite(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		StateRepository: NewStateRepository(db),
		db:              db,
	}, nil
}

// Close closes the underlying database.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
