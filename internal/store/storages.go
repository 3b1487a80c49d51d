package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Storages groups the server-side repositories. AvatarStorage is nil when no
// object storage is configured.
type Storages struct {
	UserRepository UserRepository
	TodoRepository TodoRepository
	AvatarStorage  AvatarStorage

	db    *DB
	redis *redis.Client
}

// NewStorages connects to Postgres, applies migrations and wires the
// optional Redis cache and avatar bucket.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	s := &Storages{
		UserRepository: NewUserRepository(db, logger),
		TodoRepository: NewTodoRepository(db, logger),
		db:             db,
	}

	if cfg.Cache.Address != "" {
		rdb, err := NewRedisClient(ctx, cfg.Cache, logger)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.redis = rdb
		s.TodoRepository = NewCachedTodoRepository(s.TodoRepository, NewRedisTodoCache(rdb, cfg.Cache.TTL))
	}

	if cfg.Avatars.Endpoint != "" {
		avatars, err := NewAvatarStorage(ctx, cfg.Avatars, logger)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.AvatarStorage = avatars
	}

	return s, nil
}

// Ping reports whether the database is reachable.
func (s *Storages) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

// Close releases the database and cache connections.
func (s *Storages) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
