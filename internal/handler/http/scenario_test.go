package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/app"
	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/service"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory repositories ───────────────────────────────────────────────────

type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[int64]models.User)}
}

func (m *memoryUsers) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return models.User{}, store.ErrUserAlreadyExists
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryUsers) FindUserByUsernameOrEmail(_ context.Context, username, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return u, nil
		}
	}
	return models.User{}, store.ErrUserNotFound
}

func (m *memoryUsers) FindUserByIdentity(ctx context.Context, identity string) (models.User, error) {
	return m.FindUserByUsernameOrEmail(ctx, identity, identity)
}

func (m *memoryUsers) FindUserByID(_ context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUsers) UpdateRefreshToken(_ context.Context, userID int64, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	u.RefreshToken = token
	m.users[userID] = u
	return nil
}

func (m *memoryUsers) SwapRefreshToken(_ context.Context, userID int64, oldToken, newToken string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != oldToken {
		return false, nil
	}
	u.RefreshToken = &newToken
	m.users[userID] = u
	return true, nil
}

func (m *memoryUsers) UpdateAvatar(_ context.Context, userID int64, avatarURL string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	u.Avatar = avatarURL
	m.users[userID] = u
	return u, nil
}

type memoryTodos struct {
	mu     sync.Mutex
	nextID int64
	todos  map[int64]models.Todo
}

func newMemoryTodos() *memoryTodos {
	return &memoryTodos{todos: make(map[int64]models.Todo)}
}

func (m *memoryTodos) CreateTodo(_ context.Context, todo models.Todo) (models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	todo.ID = m.nextID
	m.todos[todo.ID] = todo
	return todo, nil
}

func (m *memoryTodos) list(userID int64, incompleteOnly bool) []models.Todo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Todo{}
	for _, t := range m.todos {
		if t.UserID == userID && !(incompleteOnly && t.Completed) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryTodos) ListTodos(_ context.Context, userID int64) ([]models.Todo, error) {
	return m.list(userID, false), nil
}

func (m *memoryTodos) ListIncompleteTodos(_ context.Context, userID int64) ([]models.Todo, error) {
	return m.list(userID, true), nil
}

func (m *memoryTodos) owned(userID, id int64) (models.Todo, error) {
	t, ok := m.todos[id]
	if !ok || t.UserID != userID {
		return models.Todo{}, store.ErrTodoNotFound
	}
	return t, nil
}

func (m *memoryTodos) GetTodo(_ context.Context, userID, id int64) (models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owned(userID, id)
}

func (m *memoryTodos) UpdateTodo(_ context.Context, userID, id int64, patch models.UpdateTodoRequest) (models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.owned(userID, id)
	if err != nil {
		return models.Todo{}, err
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	m.todos[id] = t
	return t, nil
}

func (m *memoryTodos) DeleteTodo(_ context.Context, userID, id int64) (models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.owned(userID, id)
	if err != nil {
		return models.Todo{}, err
	}
	delete(m.todos, id)
	return t, nil
}

func (m *memoryTodos) MarkCompleted(_ context.Context, userID, id int64) (models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.owned(userID, id)
	if err != nil {
		return models.Todo{}, err
	}
	t.Completed = true
	t.Progress = models.ProgressCompleted
	m.todos[id] = t
	return t, nil
}

// ── Scenario ─────────────────────────────────────────────────────────────────

func newScenarioServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.StructuredConfig{
		App: config.App{
			AccessTokenSecret:  "access-secret",
			AccessTokenTTL:     time.Minute,
			RefreshTokenSecret: "refresh-secret",
			RefreshTokenTTL:    time.Hour,
			TokenIssuer:        "go-todo-keeper-test",
			BcryptCost:         4,
			Version:            "test",
		},
		Server: testServerConfig(),
	}
	cfg.Server.InsecureCookies = true

	storages := &store.Storages{
		UserRepository: newMemoryUsers(),
		TodoRepository: newMemoryTodos(),
	}
	services, err := service.NewServices(storages, cfg, logger.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(services, cfg.Server, logger.Nop()).Init())
	t.Cleanup(srv.Close)
	return srv
}

type scenarioClient struct {
	t     *testing.T
	base  string
	token string
}

func (c *scenarioClient) call(method, path, body string) (int, envelope) {
	c.t.Helper()

	req, err := http.NewRequest(method, c.base+"/api/v1"+path, strings.NewReader(body))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (c *scenarioClient) registerAndLogin(username string) {
	c.t.Helper()

	status, _ := c.call(http.MethodPost, "/users/register",
		`{"fullname":"`+username+`","email":"`+username+`@example.com","username":"`+username+`","password":"secret1"}`)
	require.Equal(c.t, http.StatusCreated, status)

	status, env := c.call(http.MethodPost, "/users/login", `{"username":"`+username+`","password":"secret1"}`)
	require.Equal(c.t, http.StatusOK, status)

	var result models.LoginResult
	require.NoError(c.t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(c.t, result.AccessToken)
	c.token = result.AccessToken
}

// TestScenario_OwnershipAcrossUsers walks through register, login, create and
// complete, then checks that a second user cannot see the first user's todo.
func TestScenario_OwnershipAcrossUsers(t *testing.T) {
	srv := newScenarioServer(t)

	alice := &scenarioClient{t: t, base: srv.URL}
	alice.registerAndLogin("alice")

	status, env := alice.call(http.MethodPost, "/todos/", `{"title":"  write report ","dueDate":"2026-10-20"}`)
	require.Equal(t, http.StatusCreated, status)

	var todo models.Todo
	require.NoError(t, json.Unmarshal(env.Data, &todo))
	assert.Equal(t, "write report", todo.Title)
	assert.Equal(t, models.PriorityMedium, todo.Priority)
	assert.Equal(t, models.ProgressTodo, todo.Progress)
	assert.False(t, todo.Completed)

	path := "/todos/" + jsonNumber(todo.ID)
	for range 2 {
		status, env = alice.call(http.MethodPut, path+"/complete", "")
		require.Equal(t, http.StatusOK, status)
		var completed models.Todo
		require.NoError(t, json.Unmarshal(env.Data, &completed))
		assert.True(t, completed.Completed)
		assert.Equal(t, models.ProgressCompleted, completed.Progress)
	}

	bob := &scenarioClient{t: t, base: srv.URL}
	bob.registerAndLogin("bob")

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		status, env = bob.call(method, path, "")
		assert.Equal(t, http.StatusNotFound, status, method)
		assert.Equal(t, app.MsgTodoNotFound, env.Message)
	}
	status, _ = bob.call(http.MethodPut, path, `{"title":"hijack"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = bob.call(http.MethodGet, "/todos/", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	status, env = alice.call(http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"title":"write report"`)
}

func TestScenario_DuplicateRegistrationAndBadLogin(t *testing.T) {
	srv := newScenarioServer(t)
	c := &scenarioClient{t: t, base: srv.URL}
	c.registerAndLogin("carol")

	status, env := c.call(http.MethodPost, "/users/register",
		`{"fullname":"Carol","email":"other@example.com","username":"carol","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, app.MsgUserAlreadyExists, env.Message)

	status, unknown := c.call(http.MethodPost, "/users/login", `{"username":"nobody","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	status, wrong := c.call(http.MethodPost, "/users/login", `{"username":"carol","password":"wrong-password"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, unknown.Message, wrong.Message)
}

// TestScenario_RegisterRejectsMalformedCredentials covers inputs that pass
// naive length checks but cannot be stored as given.
func TestScenario_RegisterRejectsMalformedCredentials(t *testing.T) {
	srv := newScenarioServer(t)
	c := &scenarioClient{t: t, base: srv.URL}

	tests := []struct {
		name     string
		username string
		password string
		field    string
	}{
		{name: "password over 72 bytes", username: "dave", password: strings.Repeat("p", 80), field: "password"},
		{name: "whitespace username", username: "     ", password: "secret1", field: "username"},
		{name: "username short once trimmed", username: " ab ", password: "secret1", field: "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(models.RegisterRequest{
				FullName: "Dave",
				Email:    "dave@example.com",
				Username: tt.username,
				Password: tt.password,
			})
			require.NoError(t, err)

			status, env := c.call(http.MethodPost, "/users/register", string(body))
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, app.MsgValidationFailed, env.Message)
			require.Len(t, env.Errors, 1)
			assert.Equal(t, tt.field, env.Errors[0].Field)
		})
	}

	c.registerAndLogin("dave")
}

func TestScenario_LogoutInvalidatesRefresh(t *testing.T) {
	srv := newScenarioServer(t)
	c := &scenarioClient{t: t, base: srv.URL}

	status, _ := c.call(http.MethodPost, "/users/register",
		`{"fullname":"Dan","email":"dan@example.com","username":"dan","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, status)

	_, env := c.call(http.MethodPost, "/users/login", `{"email":"dan@example.com","password":"secret1"}`)
	var result models.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	c.token = result.AccessToken

	status, env = c.call(http.MethodPost, "/users/refresh-token", `{"refreshToken":"`+result.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, status)
	var pair models.TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &pair))

	status, env = c.call(http.MethodPost, "/users/refresh-token", `{"refreshToken":"`+result.RefreshToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status, "a rotated refresh token must not be reusable")
	assert.Equal(t, app.MsgInvalidRefreshToken, env.Message)

	status, _ = c.call(http.MethodPost, "/users/logout", "")
	require.Equal(t, http.StatusOK, status)

	status, _ = c.call(http.MethodPost, "/users/refresh-token", `{"refreshToken":"`+pair.RefreshToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
