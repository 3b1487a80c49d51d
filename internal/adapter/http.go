package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/go-resty/resty/v2"
)

const apiPrefix = "/api/v1"

type httpServerAdapter struct {
	client *utils.HTTPClient

	logger *logger.Logger
}

// envelope is the success body of every API route.
type envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Data       T      `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// NewHTTPServerAdapter constructs the resty implementation of
// [ServerAdapter]. The address may omit the scheme, in which case http is
// assumed.
//
// Returns [ErrInvalidAddress] if adapterCfg.HTTPAddress is empty or cannot be
// parsed as a URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL+apiPrefix, adapterCfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	return execute[models.User](h, h.request(ctx, "").SetBody(req), http.MethodPost, "/users/register")
}

func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.LoginResult, error) {
	return execute[models.LoginResult](h, h.request(ctx, "").SetBody(req), http.MethodPost, "/users/login")
}

func (h *httpServerAdapter) Logout(ctx context.Context, accessToken string) error {
	_, err := execute[struct{}](h, h.request(ctx, accessToken), http.MethodPost, "/users/logout")
	return err
}

// RefreshToken sends the token in the body; the CLI does not keep cookies.
func (h *httpServerAdapter) RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	body := models.RefreshRequest{RefreshToken: refreshToken}
	return execute[models.TokenPair](h, h.request(ctx, "").SetBody(body), http.MethodPost, "/users/refresh-token")
}

func (h *httpServerAdapter) CurrentUser(ctx context.Context, accessToken string) (models.User, error) {
	return execute[models.User](h, h.request(ctx, accessToken), http.MethodGet, "/users/current-user")
}

func (h *httpServerAdapter) ListTodos(ctx context.Context, accessToken string) ([]models.Todo, error) {
	todos, err := execute[[]models.Todo](h, h.request(ctx, accessToken), http.MethodGet, "/todos/")
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

func (h *httpServerAdapter) ListFilteredTodos(ctx context.Context, accessToken string) (models.FilteredTodos, error) {
	return execute[models.FilteredTodos](h, h.request(ctx, accessToken), http.MethodGet, "/todos/filtered")
}

func (h *httpServerAdapter) CreateTodo(ctx context.Context, accessToken string, req models.CreateTodoRequest) (models.Todo, error) {
	return execute[models.Todo](h, h.request(ctx, accessToken).SetBody(req), http.MethodPost, "/todos/")
}

func (h *httpServerAdapter) GetTodo(ctx context.Context, accessToken string, id int64) (models.Todo, error) {
	return execute[models.Todo](h, h.request(ctx, accessToken), http.MethodGet, todoPath(id))
}

func (h *httpServerAdapter) UpdateTodo(ctx context.Context, accessToken string, id int64, req models.UpdateTodoRequest) (models.Todo, error) {
	return execute[models.Todo](h, h.request(ctx, accessToken).SetBody(req), http.MethodPut, todoPath(id))
}

func (h *httpServerAdapter) DeleteTodo(ctx context.Context, accessToken string, id int64) (models.Todo, error) {
	return execute[models.Todo](h, h.request(ctx, accessToken), http.MethodDelete, todoPath(id))
}

func (h *httpServerAdapter) CompleteTodo(ctx context.Context, accessToken string, id int64) (models.Todo, error) {
	return execute[models.Todo](h, h.request(ctx, accessToken), http.MethodPut, todoPath(id)+"/complete")
}

func (h *httpServerAdapter) Health(ctx context.Context) (models.HealthInfo, error) {
	return execute[models.HealthInfo](h, h.request(ctx, ""), http.MethodGet, "/users/check")
}

func (h *httpServerAdapter) request(ctx context.Context, accessToken string) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := strings.TrimSpace(accessToken); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// execute sends req and unwraps the envelope of a 2xx answer into T.
func execute[T any](h *httpServerAdapter, req *resty.Request, method, path string) (T, error) {
	var (
		zero   T
		result envelope[T]
	)

	resp, err := req.SetResult(&result).Execute(method, path)
	if err != nil {
		h.logger.Err(err).Str("func", "httpServerAdapter.execute").Str("method", method).Str("path", path).Msg("request failed")
		return zero, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		h.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("server rejected request")
		return zero, err
	}

	return result.Data, nil
}

func todoPath(id int64) string {
	return "/todos/" + strconv.FormatInt(id, 10)
}
