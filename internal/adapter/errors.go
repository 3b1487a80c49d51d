package adapter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-todo-keeper/models"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")

	// ErrNetwork wraps failures where no HTTP answer was received.
	ErrNetwork = errors.New("network error")

	ErrInvalidAddress = errors.New("invalid server address")
)

// APIError is a non-2xx answer of the server.
type APIError struct {
	StatusCode int
	// Message is the envelope message, shown to users as-is.
	Message string
	Errors  []models.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// Is matches the status-class sentinels of this package.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrTooManyRequests:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrInternalServerError:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// MessageOf returns the text a user should see for err: the server message
// of an [*APIError], a generic network text for [ErrNetwork], or fallback.
func MessageOf(err error, fallback, networkMessage string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrNetwork) {
		return networkMessage
	}
	return fallback
}
