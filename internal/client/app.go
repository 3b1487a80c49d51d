package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-todo-keeper/internal/adapter"
	"github.com/MKhiriev/go-todo-keeper/internal/app"
	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/models"
)

// App is the client runtime: the transport, the persisted state and both
// stores.
type App struct {
	Session *SessionStore
	Todos   *TodoStore

	server   adapter.ServerAdapter
	storages *store.ClientStorages
	logger   *logger.Logger
}

// NewApp opens local state, builds the server adapter and hydrates both
// stores. Close must be called to release the state database.
func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("open client state: %w", err)
	}

	server, err := adapter.NewHTTPServerAdapter(cfg.Adapter, logger)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	a := newApp(server, storages.StateRepository, cfg.Adapter.AutoRefresh, logger)
	a.storages = storages

	if err = a.Hydrate(ctx); err != nil {
		_ = storages.Close()
		return nil, err
	}
	return a, nil
}

func newApp(server adapter.ServerAdapter, repo store.StateRepository, autoRefresh bool, logger *logger.Logger) *App {
	session := NewSessionStore(server, repo, logger)
	todos := NewTodoStore(server, repo, session, autoRefresh, logger)
	session.OnLogout(todos.ClearTodos)

	return &App{
		Session: session,
		Todos:   todos,
		server:  server,
		logger:  logger,
	}
}

func (a *App) Hydrate(ctx context.Context) error {
	if err := a.Session.Hydrate(ctx); err != nil {
		return err
	}
	return a.Todos.Hydrate(ctx)
}

// CurrentUser asks the server who the held access token belongs to.
func (a *App) CurrentUser(ctx context.Context) (models.User, error) {
	token := a.Session.AccessToken()
	if token == "" {
		return models.User{}, ErrNotAuthenticated
	}

	user, err := a.server.CurrentUser(ctx, token)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", adapter.MessageOf(err, app.MsgUnauthorized, app.MsgClientNetworkError), err)
	}
	return user, nil
}

// Health reports the server version; no session is needed.
func (a *App) Health(ctx context.Context) (models.HealthInfo, error) {
	return a.server.Health(ctx)
}

func (a *App) Close() error {
	if a.storages == nil {
		return nil
	}
	return a.storages.Close()
}
