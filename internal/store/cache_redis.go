package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/redis/go-redis/v9"
)

const (
	keyTodoList        = "todo:list:"
	keyTodoListVersion = "todo:list-version:"
)

// redisTodoCache keeps each user's todo list as a JSON blob under
// "todo:list:<userID>" and a write counter under "todo:list-version:<userID>".
// Lists are only stored while the counter is unchanged (WATCH/MULTI).
type redisTodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, cfg config.Cache, log *logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisClient").Msg("error connecting redis (ping)")
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info().Str("func", "NewRedisClient").Msg("connected to redis successfully")

	return rdb, nil
}

// NewRedisTodoCache returns a [TodoCache] storing lists for ttl.
func NewRedisTodoCache(rdb *redis.Client, ttl time.Duration) TodoCache {
	return &redisTodoCache{rdb: rdb, ttl: ttl}
}

func (c *redisTodoCache) GetList(ctx context.Context, userID int64) ([]models.Todo, bool, error) {
	b, err := c.rdb.Get(ctx, listKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var list []models.Todo
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, err
	}
	return list, true, nil
}

func (c *redisTodoCache) Version(ctx context.Context, userID int64) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *redisTodoCache) SetList(ctx context.Context, userID int64, version int64, todos []models.Todo) error {
	b, err := json.Marshal(todos)
	if err != nil {
		return err
	}

	vKey := versionKey(userID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return ErrStaleCacheEntry
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, listKey(userID), b, c.ttl)
			return nil
		})
		return err
	}, vKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleCacheEntry
	}
	return err
}

func (c *redisTodoCache) Invalidate(ctx context.Context, userID int64) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(userID))
		pipe.Del(ctx, listKey(userID))
		return nil
	})
	return err
}

func listKey(userID int64) string {
	return keyTodoList + strconv.FormatInt(userID, 10)
}

func versionKey(userID int64) string {
	return keyTodoListVersion + strconv.FormatInt(userID, 10)
}
