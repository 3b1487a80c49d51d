package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/models"
	"golang.org/x/sync/singleflight"
)

// defaultCacheLoadTimeout bounds a shared list load, which no longer follows
// the deadline of the request that started it.
const defaultCacheLoadTimeout = 10 * time.Second

// cachedTodoRepository decorates a [TodoRepository] with a read-through
// per-user list cache. Concurrent misses for the same user share one
// database query. Every write invalidates the owner's entry, and a list
// loaded before that invalidation is never stored. Cache failures are
// logged and fall back to the database.
type cachedTodoRepository struct {
	TodoRepository
	cache       TodoCache
	group       singleflight.Group
	loadTimeout time.Duration
}

// NewCachedTodoRepository wraps repo with cache.
func NewCachedTodoRepository(repo TodoRepository, cache TodoCache) TodoRepository {
	return &cachedTodoRepository{
		TodoRepository: repo,
		cache:          cache,
		loadTimeout:    defaultCacheLoadTimeout,
	}
}

func (r *cachedTodoRepository) ListTodos(ctx context.Context, userID int64) ([]models.Todo, error) {
	log := logger.FromContext(ctx)

	cached, ok, err := r.cache.GetList(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("func", "*cachedTodoRepository.ListTodos").Msg("todo cache read failed")
	}
	if ok {
		return cached, nil
	}

	// the shared load outlives any single caller
	ch := r.group.DoChan(strconv.FormatInt(userID, 10), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.loadTimeout)
		defer cancel()
		return r.load(loadCtx, userID)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Todo), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// load reads the list from the database and caches it at the version seen
// before the read.
func (r *cachedTodoRepository) load(ctx context.Context, userID int64) ([]models.Todo, error) {
	log := logger.FromContext(ctx)

	version, versionErr := r.cache.Version(ctx, userID)
	if versionErr != nil {
		log.Warn().Err(versionErr).Str("func", "*cachedTodoRepository.load").Msg("todo cache version read failed")
	}

	todos, err := r.TodoRepository.ListTodos(ctx, userID)
	if err != nil {
		return nil, err
	}
	if versionErr != nil {
		return todos, nil
	}

	err = r.cache.SetList(ctx, userID, version, todos)
	switch {
	case errors.Is(err, ErrStaleCacheEntry):
		log.Debug().Int64("user_id", userID).Msg("todo list changed while loading, not cached")
	case err != nil:
		log.Warn().Err(err).Str("func", "*cachedTodoRepository.load").Msg("todo cache write failed")
	}

	return todos, nil
}

// ListIncompleteTodos filters the cached full list.
func (r *cachedTodoRepository) ListIncompleteTodos(ctx context.Context, userID int64) ([]models.Todo, error) {
	todos, err := r.ListTodos(ctx, userID)
	if err != nil {
		return nil, err
	}

	incomplete := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if !t.Completed {
			incomplete = append(incomplete, t)
		}
	}
	return incomplete, nil
}

func (r *cachedTodoRepository) CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error) {
	created, err := r.TodoRepository.CreateTodo(ctx, todo)
	r.invalidate(ctx, todo.UserID)
	return created, err
}

func (r *cachedTodoRepository) UpdateTodo(ctx context.Context, userID, id int64, patch models.UpdateTodoRequest) (models.Todo, error) {
	updated, err := r.TodoRepository.UpdateTodo(ctx, userID, id, patch)
	r.invalidate(ctx, userID)
	return updated, err
}

func (r *cachedTodoRepository) DeleteTodo(ctx context.Context, userID, id int64) (models.Todo, error) {
	deleted, err := r.TodoRepository.DeleteTodo(ctx, userID, id)
	r.invalidate(ctx, userID)
	return deleted, err
}

func (r *cachedTodoRepository) MarkCompleted(ctx context.Context, userID, id int64) (models.Todo, error) {
	completed, err := r.TodoRepository.MarkCompleted(ctx, userID, id)
	r.invalidate(ctx, userID)
	return completed, err
}

func (r *cachedTodoRepository) invalidate(ctx context.Context, userID int64) {
	if err := r.cache.Invalidate(ctx, userID); err != nil {
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("func", "*cachedTodoRepository.invalidate").
			Int64("user_id", userID).
			Msg("todo cache invalidation failed")
	}
}
