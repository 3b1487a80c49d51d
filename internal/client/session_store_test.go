// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-todo-keeper/internal/adapter"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/mock"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestSession(t *testing.T) (*SessionStore, *mock.MockServerAdapter, *memoryState) {
	t.Helper()
	ctrl := gomock.NewController(t)
	server := mock.NewMockServerAdapter(ctrl)
	state := newMemoryState()
	return NewSessionStore(server, state, logger.Nop()), server, state
}

func loginOK(server *mock.MockServerAdapter) {
	server.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.LoginResult{
		User:         models.User{ID: 1, Username: "alice"},
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}, nil)
}

// ── Hydrate ───────────────────────────────────────────────────────────────────

func TestSessionHydrate_Empty(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.NoError(t, s.Hydrate(context.Background()))
	snap := s.Snapshot()
	assert.True(t, snap.Hydrated)
	assert.Nil(t, snap.User)
	assert.False(t, s.IsAuthenticated())
}

func TestSessionHydrate_RestoresPersisted(t *testing.T) {
	s, server, state := newTestSession(t)
	loginOK(server)
	require.True(t, s.Login(context.Background(), "alice", "secret1"))

	restored := NewSessionStore(server, state, logger.Nop())
	require.NoError(t, restored.Hydrate(context.Background()))

	snap := restored.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "alice", snap.User.Username)
	assert.Equal(t, "access-1", restored.AccessToken())
	assert.True(t, snap.Hydrated)
}

func TestSessionHydrate_CorruptSnapshotDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockStateRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), sessionStateKey).Return([]byte("{not json"), nil)
	repo.EXPECT().Delete(gomock.Any(), sessionStateKey).Return(nil)

	s := NewSessionStore(mock.NewMockServerAdapter(ctrl), repo, logger.Nop())
	require.NoError(t, s.Hydrate(context.Background()))
	assert.True(t, s.Snapshot().Hydrated)
}

func TestSessionHydrate_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockStateRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), sessionStateKey).Return(nil, store.ErrExecutingQuery)

	s := NewSessionStore(mock.NewMockServerAdapter(ctrl), repo, logger.Nop())
	err := s.Hydrate(context.Background())
	assert.ErrorIs(t, err, store.ErrExecutingQuery)
	assert.False(t, s.Snapshot().Hydrated)
}

// ── Login ─────────────────────────────────────────────────────────────────────

func TestSessionLogin_IdentityKind(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		want     models.LoginRequest
	}{
		{name: "username", identity: "alice", want: models.LoginRequest{Username: "alice", Password: "pw"}},
		{name: "email", identity: "alice@example.com", want: models.LoginRequest{Email: "alice@example.com", Password: "pw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, server, _ := newTestSession(t)
			server.EXPECT().Login(gomock.Any(), tt.want).Return(models.LoginResult{AccessToken: "a", RefreshToken: "r"}, nil)

			assert.True(t, s.Login(context.Background(), tt.identity, "pw"))
		})
	}
}

func TestSessionLogin_SuccessPersists(t *testing.T) {
	s, server, state := newTestSession(t)
	loginOK(server)

	require.True(t, s.Login(context.Background(), "alice", "secret1"))

	snap := s.Snapshot()
	assert.Empty(t, snap.Error)
	require.NotNil(t, snap.RefreshToken)
	assert.Equal(t, "refresh-1", *snap.RefreshToken)
	assert.True(t, s.IsAuthenticated())
	assert.True(t, state.has(sessionStateKey))
}

func TestSessionLogin_FailureKeepsPriorState(t *testing.T) {
	s, server, _ := newTestSession(t)
	loginOK(server)
	require.True(t, s.Login(context.Background(), "alice", "secret1"))

	server.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.LoginResult{}, &adapter.APIError{StatusCode: http.StatusBadRequest, Message: "Invalid user credentials"})

	assert.False(t, s.Login(context.Background(), "alice", "wrong"))

	snap := s.Snapshot()
	assert.Equal(t, "Invalid user credentials", snap.Error)
	assert.Equal(t, "access-1", *snap.AccessToken)
	assert.Equal(t, "alice", snap.User.Username)
}

func TestSessionLogin_ErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "network", err: errors.Join(adapter.ErrNetwork, errors.New("dial")), want: "Network error occurred"},
		{name: "no message", err: &adapter.APIError{StatusCode: http.StatusInternalServerError}, want: "Login failed"},
		{name: "unknown", err: errors.New("boom"), want: "Login failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, server, _ := newTestSession(t)
			server.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.LoginResult{}, tt.err)

			assert.False(t, s.Login(context.Background(), "alice", "pw"))
			assert.Equal(t, tt.want, s.Snapshot().Error)
		})
	}
}

// ── Register ──────────────────────────────────────────────────────────────────

func TestSessionRegister_StoresProfileWithoutTokens(t *testing.T) {
	s, server, _ := newTestSession(t)
	server.EXPECT().Register(gomock.Any(), models.RegisterRequest{
		FullName: "Alice A", Email: "alice@example.com", Username: "alice", Password: "secret1",
	}).Return(models.User{ID: 3, Username: "alice"}, nil)

	require.True(t, s.Register(context.Background(), "Alice A", "alice@example.com", "alice", "secret1"))

	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, int64(3), snap.User.ID)
	assert.Nil(t, snap.AccessToken)
	assert.Nil(t, snap.RefreshToken)
	assert.False(t, s.IsAuthenticated())
}

func TestSessionRegister_Failure(t *testing.T) {
	s, server, _ := newTestSession(t)
	server.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(models.User{}, &adapter.APIError{StatusCode: http.StatusBadRequest, Message: "User with email or username already exists"})

	assert.False(t, s.Register(context.Background(), "A", "a@b.c", "abc", "secret1"))
	assert.Equal(t, "User with email or username already exists", s.Snapshot().Error)
}

// ── Logout ────────────────────────────────────────────────────────────────────

func TestSessionLogout_ClearsEverything(t *testing.T) {
	s, server, state := newTestSession(t)
	loginOK(server)
	require.True(t, s.Login(context.Background(), "alice", "secret1"))

	var hookCalled bool
	s.OnLogout(func(context.Context) { hookCalled = true })
	server.EXPECT().Logout(gomock.Any(), "access-1").Return(nil)

	assert.True(t, s.Logout(context.Background()))
	assert.True(t, hookCalled)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Snapshot().User)
	assert.False(t, state.has(sessionStateKey))
}

func TestSessionLogout_ServerFailureStillClears(t *testing.T) {
	s, server, state := newTestSession(t)
	loginOK(server)
	require.True(t, s.Login(context.Background(), "alice", "secret1"))

	server.EXPECT().Logout(gomock.Any(), "access-1").Return(adapter.ErrNetwork)

	assert.False(t, s.Logout(context.Background()))
	assert.False(t, s.IsAuthenticated())
	assert.False(t, state.has(sessionStateKey))
	assert.Equal(t, "Network error occurred", s.Snapshot().Error)
}

func TestSessionLogout_WithoutSessionSkipsServer(t *testing.T) {
	s, _, _ := newTestSession(t)
	assert.True(t, s.Logout(context.Background()))
}

// ── Refresh ───────────────────────────────────────────────────────────────────

func TestSessionRefresh_RotatesTokens(t *testing.T) {
	s, server, _ := newTestSession(t)
	loginOK(server)
	require.True(t, s.Login(context.Background(), "alice", "secret1"))

	server.EXPECT().RefreshToken(gomock.Any(), "refresh-1").
		Return(models.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil)

	require.True(t, s.Refresh(context.Background()))
	assert.Equal(t, "access-2", s.AccessToken())
	assert.Equal(t, "refresh-2", *s.Snapshot().RefreshToken)
}

func TestSessionRefresh_NoRefreshToken(t *testing.T) {
	s, _, _ := newTestSession(t)
	assert.False(t, s.Refresh(context.Background()))
	assert.NotEmpty(t, s.Snapshot().Error)
}

func TestSessionRefresh_RejectedKeepsTokens(t *testing.T) {
	s, server, _ := newTestSession(t)
	loginOK(server)
	require.True(t, s.Login(context.Background(), "alice", "secret1"))

	server.EXPECT().RefreshToken(gomock.Any(), "refresh-1").
		Return(models.TokenPair{}, &adapter.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid refresh token"})

	assert.False(t, s.Refresh(context.Background()))
	assert.Equal(t, "access-1", s.AccessToken())
	assert.Equal(t, "Invalid refresh token", s.Snapshot().Error)
}

// ── Snapshot / ClearError ─────────────────────────────────────────────────────

func TestSessionSnapshot_IsACopy(t *testing.T) {
	s, server, _ := newTestSession(t)
	loginOK(server)
	require.True(t, s.Login(context.Background(), "alice", "secret1"))

	snap := s.Snapshot()
	*snap.AccessToken = "tampered"
	snap.User.Username = "mallory"

	assert.Equal(t, "access-1", s.AccessToken())
	assert.Equal(t, "alice", s.Snapshot().User.Username)
}

func TestSessionClearError(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.setError("boom")
	s.ClearError()
	assert.Empty(t, s.Snapshot().Error)
}
