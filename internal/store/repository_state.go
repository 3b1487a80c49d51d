package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
)

// stateRepository is the SQLite-backed [StateRepository] of the CLI client.
// Values are opaque bytes; callers own serialization.
type stateRepository struct {
	*DB
}

// NewStateRepository constructs a [StateRepository] over the client database.
func NewStateRepository(db *DB) StateRepository {
	return &stateRepository{DB: db}
}

func (s *stateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.DB.QueryRowContext(ctx, getState, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*stateRepository.Get").Str("key", key).Msg("failed to read state")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return value, nil
}

func (s *stateRepository) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.DB.ExecContext(ctx, putState, key, value); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*stateRepository.Put").Str("key", key).Msg("failed to write state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *stateRepository) Delete(ctx context.Context, key string) error {
	if _, err := s.DB.ExecContext(ctx, deleteState, key); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*stateRepository.Delete").Str("key", key).Msg("failed to delete state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
