package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/go-todo-keeper/internal/adapter"
	"github.com/MKhiriev/go-todo-keeper/internal/app"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/models"
)

const sessionStateKey = "auth"

// SessionState is a point-in-time copy of the session. Nil tokens mean no
// session is held.
type SessionState struct {
	User         *models.User `json:"user"`
	AccessToken  *string      `json:"accessToken"`
	RefreshToken *string      `json:"refreshToken"`
	Error        string       `json:"-"`
	Hydrated     bool         `json:"-"`
}

// SessionStore holds the client's identity and token pair.
type SessionStore struct {
	mu    sync.RWMutex
	state SessionState

	server   adapter.ServerAdapter
	repo     store.StateRepository
	onLogout []func(ctx context.Context)

	logger *logger.Logger
}

func NewSessionStore(server adapter.ServerAdapter, repo store.StateRepository, logger *logger.Logger) *SessionStore {
	return &SessionStore{
		server: server,
		repo:   repo,
		logger: logger,
	}
}

// OnLogout registers fn to run after local state is cleared by Logout.
func (s *SessionStore) OnLogout(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Hydrate loads the persisted snapshot, if any. A corrupt snapshot is
// dropped and the store starts empty.
func (s *SessionStore) Hydrate(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, sessionStateKey)
	if errors.Is(err, store.ErrStateNotFound) {
		s.setHydrated(SessionState{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session snapshot: %w", err)
	}

	var persisted SessionState
	if err = json.Unmarshal(raw, &persisted); err != nil {
		s.logger.Warn().Err(err).Str("func", "*SessionStore.Hydrate").Msg("dropping corrupt session snapshot")
		if delErr := s.repo.Delete(ctx, sessionStateKey); delErr != nil {
			return fmt.Errorf("%w: %w", ErrCorruptSnapshot, delErr)
		}
		s.setHydrated(SessionState{})
		return nil
	}

	s.setHydrated(persisted)
	return nil
}

func (s *SessionStore) setHydrated(state SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.Hydrated = true
	s.state = state
}

// Login authenticates with a username or an email, whichever identity looks
// like. Prior state is kept on failure.
func (s *SessionStore) Login(ctx context.Context, identity, password string) bool {
	req := models.LoginRequest{Password: password}
	identity = strings.TrimSpace(identity)
	if strings.Contains(identity, "@") {
		req.Email = identity
	} else {
		req.Username = identity
	}

	res, err := s.server.Login(ctx, req)
	if err != nil {
		s.fail(err, app.MsgClientLoginFailed)
		return false
	}

	user := res.User
	s.mu.Lock()
	s.state.User = &user
	s.state.AccessToken = &res.AccessToken
	s.state.RefreshToken = &res.RefreshToken
	s.state.Error = ""
	persisted := s.state
	s.mu.Unlock()

	s.persist(ctx, persisted)
	return true
}

// Register creates an account. The returned profile is stored without
// tokens; a separate Login starts the session.
func (s *SessionStore) Register(ctx context.Context, fullName, email, username, password string) bool {
	user, err := s.server.Register(ctx, models.RegisterRequest{
		FullName: fullName,
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		s.fail(err, app.MsgClientRegistrationFailed)
		return false
	}

	s.mu.Lock()
	s.state.User = &user
	s.state.AccessToken = nil
	s.state.RefreshToken = nil
	s.state.Error = ""
	persisted := s.state
	s.mu.Unlock()

	s.persist(ctx, persisted)
	return true
}

// Logout ends the session on the server and always clears local state,
// including the todo store. A server failure is still reported.
func (s *SessionStore) Logout(ctx context.Context) bool {
	var err error
	if token := s.AccessToken(); token != "" {
		err = s.server.Logout(ctx, token)
	}

	s.mu.Lock()
	s.state = SessionState{Hydrated: true}
	hooks := append([]func(context.Context){}, s.onLogout...)
	s.mu.Unlock()

	if delErr := s.repo.Delete(ctx, sessionStateKey); delErr != nil {
		s.logger.Err(delErr).Str("func", "*SessionStore.Logout").Msg("failed to delete session snapshot")
	}
	for _, hook := range hooks {
		hook(ctx)
	}

	if err != nil {
		s.fail(err, app.MsgClientLogoutFailed)
		return false
	}
	return true
}

// Refresh rotates the token pair. On failure the held tokens are kept so the
// caller decides whether to log out.
func (s *SessionStore) Refresh(ctx context.Context) bool {
	s.mu.RLock()
	var refresh string
	if s.state.RefreshToken != nil {
		refresh = *s.state.RefreshToken
	}
	s.mu.RUnlock()

	if refresh == "" {
		s.setError(app.MsgUnauthorized)
		return false
	}

	pair, err := s.server.RefreshToken(ctx, refresh)
	if err != nil {
		s.fail(err, app.MsgClientRefreshFailed)
		return false
	}

	s.mu.Lock()
	s.state.AccessToken = &pair.AccessToken
	s.state.RefreshToken = &pair.RefreshToken
	s.state.Error = ""
	persisted := s.state
	s.mu.Unlock()

	s.persist(ctx, persisted)
	return true
}

// IsAuthenticated reports whether an access token is held. The server is
// not consulted.
func (s *SessionStore) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// AccessToken returns the held access token or "".
func (s *SessionStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.AccessToken == nil {
		return ""
	}
	return *s.state.AccessToken
}

func (s *SessionStore) ClearError() {
	s.setError("")
}

// Snapshot returns a copy of the current state. Pointer fields are copied so
// the caller cannot mutate the store.
func (s *SessionStore) Snapshot() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	if snap.User != nil {
		user := *snap.User
		snap.User = &user
	}
	if snap.AccessToken != nil {
		token := *snap.AccessToken
		snap.AccessToken = &token
	}
	if snap.RefreshToken != nil {
		token := *snap.RefreshToken
		snap.RefreshToken = &token
	}
	return snap
}

func (s *SessionStore) fail(err error, fallback string) {
	s.logger.Debug().Err(err).Msg("session operation failed")
	s.setError(adapter.MessageOf(err, fallback, app.MsgClientNetworkError))
}

func (s *SessionStore) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = msg
}

func (s *SessionStore) persist(ctx context.Context, state SessionState) {
	raw, err := json.Marshal(state)
	if err != nil {
		s.logger.Err(err).Str("func", "*SessionStore.persist").Msg("failed to encode session snapshot")
		return
	}
	if err = s.repo.Put(ctx, sessionStateKey, raw); err != nil {
		s.logger.Err(err).Str("func", "*SessionStore.persist").Msg("failed to save session snapshot")
	}
}
