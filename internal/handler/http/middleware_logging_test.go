package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// injectLogger puts l into the request context the same way withTraceID
// does.
func injectLogger(r *http.Request, l zerolog.Logger) *http.Request {
	return r.WithContext(l.WithContext(r.Context()))
}

func TestWithLogging_TableTest(t *testing.T) {
	tests := []struct {
		name             string
		method           string
		path             string
		handlerStatus    int
		handlerResponse  string
		checkLogContains []string
	}{
		{
			name:            "todo list 200",
			method:          http.MethodGet,
			path:            "/api/v1/todos/",
			handlerStatus:   http.StatusOK,
			handlerResponse: "[]",
			checkLogContains: []string{
				`"method":"GET"`,
				`"uri":"/api/v1/todos/"`,
				`"status":200`,
				`"duration":`,
				`"size":2`,
			},
		},
		{
			name:          "register 201",
			method:        http.MethodPost,
			path:          "/api/v1/users/register",
			handlerStatus: http.StatusCreated,
			checkLogContains: []string{
				`"method":"POST"`,
				`"status":201`,
				`"size":0`,
			},
		},
		{
			name:            "missing todo 404",
			method:          http.MethodGet,
			path:            "/api/v1/todos/99?x=1",
			handlerStatus:   http.StatusNotFound,
			handlerResponse: "{}",
			checkLogContains: []string{
				`"uri":"/api/v1/todos/99?x=1"`,
				`"status":404`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := newTestHandler()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
				if tt.handlerResponse != "" {
					_, _ = w.Write([]byte(tt.handlerResponse))
				}
			})

			req := injectLogger(httptest.NewRequest(tt.method, tt.path, nil), zerolog.New(&buf))
			rr := httptest.NewRecorder()
			h.withLogging(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.handlerStatus, rr.Code)
			for _, want := range tt.checkLogContains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

// TestWithLogging_NoStatusWritten verifies that a handler writing nothing is
// logged as 200, which is what net/http sends.
func TestWithLogging_NoStatusWritten(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler()

	req := injectLogger(httptest.NewRequest(http.MethodGet, "/noop", nil), zerolog.New(&buf))
	h.withLogging(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"status":200`)
}

func TestWithLogging_RoutePattern(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler()

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, injectLogger(r, zerolog.New(&buf)))
		})
	})
	router.Use(h.withLogging)
	router.Get("/api/v1/todos/{id}", func(w http.ResponseWriter, r *http.Request) {})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/todos/42", nil))
	assert.Contains(t, buf.String(), `"route":"/api/v1/todos/{id}"`)
	assert.Contains(t, buf.String(), `"uri":"/api/v1/todos/42"`)

	buf.Reset()
	h.withLogging(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(),
		injectLogger(httptest.NewRequest(http.MethodGet, "/nowhere", nil), zerolog.New(&buf)))
	assert.Contains(t, buf.String(), `"route":"unmatched"`)
}
