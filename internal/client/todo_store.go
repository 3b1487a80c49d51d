package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/MKhiriev/go-todo-keeper/internal/adapter"
	"github.com/MKhiriev/go-todo-keeper/internal/app"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/models"
)

const todoStateKey = "todo"

// TodoState is a point-in-time copy of the cached todos.
type TodoState struct {
	Todos     []models.Todo `json:"todos"`
	OverDue   []models.Todo `json:"overDue"`
	Today     []models.Todo `json:"today"`
	Upcoming  []models.Todo `json:"upcoming"`
	IsLoading bool          `json:"-"`
	Error     string        `json:"-"`
}

// tokenSource is the part of [SessionStore] the todo store depends on.
type tokenSource interface {
	AccessToken() string
	Refresh(ctx context.Context) bool
}

// TodoStore caches the user's todos and keeps them in line with the server.
type TodoStore struct {
	mu    sync.RWMutex
	state TodoState

	server      adapter.ServerAdapter
	repo        store.StateRepository
	session     tokenSource
	autoRefresh bool

	logger *logger.Logger
}

// NewTodoStore constructs a TodoStore. With autoRefresh set, a request
// rejected with 401 is retried once after a successful token refresh.
func NewTodoStore(server adapter.ServerAdapter, repo store.StateRepository, session tokenSource, autoRefresh bool, logger *logger.Logger) *TodoStore {
	return &TodoStore{
		server:      server,
		repo:        repo,
		session:     session,
		autoRefresh: autoRefresh,
		logger:      logger,
	}
}

func (t *TodoStore) Hydrate(ctx context.Context) error {
	raw, err := t.repo.Get(ctx, todoStateKey)
	if errors.Is(err, store.ErrStateNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load todo snapshot: %w", err)
	}

	var persisted TodoState
	if err = json.Unmarshal(raw, &persisted); err != nil {
		t.logger.Warn().Err(err).Str("func", "*TodoStore.Hydrate").Msg("dropping corrupt todo snapshot")
		if delErr := t.repo.Delete(ctx, todoStateKey); delErr != nil {
			return fmt.Errorf("%w: %w", ErrCorruptSnapshot, delErr)
		}
		return nil
	}

	t.mu.Lock()
	t.state = persisted
	t.mu.Unlock()
	return nil
}

func (t *TodoStore) FetchTodos(ctx context.Context) bool {
	t.begin()
	defer t.end()

	todos, err := withToken(ctx, t, func(token string) ([]models.Todo, error) {
		return t.server.ListTodos(ctx, token)
	})
	if err != nil {
		t.fail(err, app.MsgClientFetchTodosFailed)
		return false
	}

	t.apply(ctx, func(s *TodoState) { s.Todos = todos })
	return true
}

func (t *TodoStore) FetchFiltered(ctx context.Context) bool {
	t.begin()
	defer t.end()

	filtered, err := withToken(ctx, t, func(token string) (models.FilteredTodos, error) {
		return t.server.ListFilteredTodos(ctx, token)
	})
	if err != nil {
		t.fail(err, app.MsgClientFetchFiltered)
		return false
	}

	t.apply(ctx, func(s *TodoState) {
		s.OverDue = orEmpty(filtered.OverDue)
		s.Today = orEmpty(filtered.Today)
		s.Upcoming = orEmpty(filtered.Upcoming)
	})
	return true
}

// FetchTodo loads one todo and refreshes its cached copy if present.
func (t *TodoStore) FetchTodo(ctx context.Context, id int64) (models.Todo, bool) {
	t.begin()
	defer t.end()

	todo, err := withToken(ctx, t, func(token string) (models.Todo, error) {
		return t.server.GetTodo(ctx, token, id)
	})
	if err != nil {
		t.fail(err, app.MsgClientFetchTodosFailed)
		return models.Todo{}, false
	}

	t.apply(ctx, func(s *TodoState) { s.Todos = replaceTodo(s.Todos, todo) })
	return todo, true
}

// CreateTodo appends the server's record; nothing is added on failure.
func (t *TodoStore) CreateTodo(ctx context.Context, req models.CreateTodoRequest) (models.Todo, bool) {
	t.begin()
	defer t.end()

	todo, err := withToken(ctx, t, func(token string) (models.Todo, error) {
		return t.server.CreateTodo(ctx, token, req)
	})
	if err != nil {
		t.fail(err, app.MsgClientCreateTodoFailed)
		return models.Todo{}, false
	}

	t.apply(ctx, func(s *TodoState) { s.Todos = append(slices.Clone(s.Todos), todo) })
	return todo, true
}

func (t *TodoStore) UpdateTodo(ctx context.Context, id int64, req models.UpdateTodoRequest) (models.Todo, bool) {
	t.begin()
	defer t.end()

	todo, err := withToken(ctx, t, func(token string) (models.Todo, error) {
		return t.server.UpdateTodo(ctx, token, id, req)
	})
	if err != nil {
		t.fail(err, app.MsgClientUpdateTodoFailed)
		return models.Todo{}, false
	}

	t.apply(ctx, func(s *TodoState) { s.Todos = replaceTodo(s.Todos, todo) })
	return todo, true
}

func (t *TodoStore) MarkCompleted(ctx context.Context, id int64) (models.Todo, bool) {
	t.begin()
	defer t.end()

	todo, err := withToken(ctx, t, func(token string) (models.Todo, error) {
		return t.server.CompleteTodo(ctx, token, id)
	})
	if err != nil {
		t.fail(err, app.MsgClientCompleteTodoFailed)
		return models.Todo{}, false
	}

	t.apply(ctx, func(s *TodoState) { s.Todos = replaceTodo(s.Todos, todo) })
	return todo, true
}

func (t *TodoStore) DeleteTodo(ctx context.Context, id int64) (models.Todo, bool) {
	t.begin()
	defer t.end()

	todo, err := withToken(ctx, t, func(token string) (models.Todo, error) {
		return t.server.DeleteTodo(ctx, token, id)
	})
	if err != nil {
		t.fail(err, app.MsgClientDeleteTodoFailed)
		return models.Todo{}, false
	}

	t.apply(ctx, func(s *TodoState) {
		s.Todos = slices.DeleteFunc(slices.Clone(s.Todos), func(item models.Todo) bool { return item.ID == id })
	})
	return todo, true
}

// ClearTodos drops every cached list and the persisted snapshot.
func (t *TodoStore) ClearTodos(ctx context.Context) {
	t.mu.Lock()
	t.state = TodoState{}
	t.mu.Unlock()

	if err := t.repo.Delete(ctx, todoStateKey); err != nil {
		t.logger.Err(err).Str("func", "*TodoStore.ClearTodos").Msg("failed to delete todo snapshot")
	}
}

func (t *TodoStore) ClearError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Error = ""
}

// Snapshot returns a copy of the current state.
func (t *TodoStore) Snapshot() TodoState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := t.state
	snap.Todos = slices.Clone(snap.Todos)
	snap.OverDue = slices.Clone(snap.OverDue)
	snap.Today = slices.Clone(snap.Today)
	snap.Upcoming = slices.Clone(snap.Upcoming)
	return snap
}

func (t *TodoStore) begin() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.IsLoading = true
	t.state.Error = ""
}

func (t *TodoStore) end() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.IsLoading = false
}

func (t *TodoStore) fail(err error, fallback string) {
	t.logger.Debug().Err(err).Msg("todo operation failed")

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Error = adapter.MessageOf(err, fallback, app.MsgClientNetworkError)
}

// apply mutates the state under the lock and persists the result.
func (t *TodoStore) apply(ctx context.Context, mutate func(s *TodoState)) {
	t.mu.Lock()
	mutate(&t.state)
	persisted := t.state
	t.mu.Unlock()

	raw, err := json.Marshal(persisted)
	if err != nil {
		t.logger.Err(err).Str("func", "*TodoStore.apply").Msg("failed to encode todo snapshot")
		return
	}
	if err = t.repo.Put(ctx, todoStateKey, raw); err != nil {
		t.logger.Err(err).Str("func", "*TodoStore.apply").Msg("failed to save todo snapshot")
	}
}

// withToken runs call with the current access token. A 401 triggers a single
// retry after a successful refresh when auto refresh is enabled.
func withToken[T any](ctx context.Context, t *TodoStore, call func(token string) (T, error)) (T, error) {
	res, err := call(t.session.AccessToken())
	if err == nil || !t.autoRefresh || !errors.Is(err, adapter.ErrUnauthorized) {
		return res, err
	}

	t.logger.Debug().Msg("access token rejected, refreshing")
	if !t.session.Refresh(ctx) {
		return res, err
	}
	return call(t.session.AccessToken())
}

// replaceTodo swaps the entry with todo.ID. An unknown id leaves the list as is.
func replaceTodo(todos []models.Todo, todo models.Todo) []models.Todo {
	idx := slices.IndexFunc(todos, func(item models.Todo) bool { return item.ID == todo.ID })
	if idx < 0 {
		return todos
	}
	out := slices.Clone(todos)
	out[idx] = todo
	return out
}

func orEmpty(todos []models.Todo) []models.Todo {
	if todos == nil {
		return []models.Todo{}
	}
	return todos
}
