// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client-side transport to the go-todo-keeper
// REST API.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// stores from the protocol. The package ships a resty implementation
// ([NewHTTPServerAdapter]) that unwraps the response envelope.
//
// Non-2xx answers become an [*APIError] carrying the server message, which
// matches the sentinels in errors.go via [errors.Is] ([ErrUnauthorized] for
// 401, [ErrNotFound] for 404 and so on). Transport failures wrap [ErrNetwork].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-todo-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the go-todo-keeper server. The
// adapter holds no session: callers pass the access token they own.
type ServerAdapter interface {
	// Register creates an account. No session is implied by success.
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)

	// Login exchanges credentials for the user profile and a token pair.
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResult, error)

	// Logout ends the server-side session bound to accessToken.
	Logout(ctx context.Context, accessToken string) error

	// RefreshToken rotates refreshToken into a new pair. The presented token
	// is no longer usable afterwards.
	RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error)

	CurrentUser(ctx context.Context, accessToken string) (models.User, error)

	ListTodos(ctx context.Context, accessToken string) ([]models.Todo, error)
	ListFilteredTodos(ctx context.Context, accessToken string) (models.FilteredTodos, error)
	CreateTodo(ctx context.Context, accessToken string, req models.CreateTodoRequest) (models.Todo, error)
	GetTodo(ctx context.Context, accessToken string, id int64) (models.Todo, error)
	UpdateTodo(ctx context.Context, accessToken string, id int64, req models.UpdateTodoRequest) (models.Todo, error)
	// DeleteTodo returns the record as it was before deletion.
	DeleteTodo(ctx context.Context, accessToken string, id int64) (models.Todo, error)
	CompleteTodo(ctx context.Context, accessToken string, id int64) (models.Todo, error)

	// Health calls the unauthenticated check route.
	Health(ctx context.Context) (models.HealthInfo, error)
}
