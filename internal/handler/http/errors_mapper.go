package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MKhiriev/go-todo-keeper/internal/app"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/observability"
	"github.com/MKhiriev/go-todo-keeper/internal/service"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
	"github.com/MKhiriev/go-todo-keeper/internal/validators"
	"github.com/MKhiriev/go-todo-keeper/models"
)

type errorStatus struct {
	target  error
	status  int
	message string
}

// errorStatusMap is checked in order; the first matching target wins.
var errorStatusMap = []errorStatus{
	{validators.ErrValidation, http.StatusBadRequest, app.MsgValidationFailed},
	{service.ErrIdentityRequired, http.StatusBadRequest, app.MsgIdentityRequired},
	{service.ErrInvalidCredentials, http.StatusBadRequest, app.MsgInvalidCredentials},
	{store.ErrUserAlreadyExists, http.StatusBadRequest, app.MsgUserAlreadyExists},
	{store.ErrInvalidAvatar, http.StatusBadRequest, app.MsgInvalidAvatar},

	{service.ErrUnauthorized, http.StatusUnauthorized, app.MsgUnauthorized},
	{service.ErrTokenExpired, http.StatusUnauthorized, app.MsgInvalidAccessToken},
	{service.ErrTokenInvalid, http.StatusUnauthorized, app.MsgInvalidAccessToken},

	{store.ErrTodoNotFound, http.StatusNotFound, app.MsgTodoNotFound},
	{store.ErrAvatarNotFound, http.StatusNotFound, app.MsgAvatarNotFound},
	{store.ErrUserNotFound, http.StatusNotFound, app.MsgUserNotFound},

	{store.ErrAvatarsDisabled, http.StatusServiceUnavailable, app.MsgAvatarsDisabled},
}

func statusFromError(err error) int {
	status, _ := classifyError(err)
	return status
}

func messageFromError(err error) string {
	_, message := classifyError(err)
	return message
}

func classifyError(err error) (int, string) {
	for _, candidate := range errorStatusMap {
		if errors.Is(err, candidate.target) {
			return candidate.status, candidate.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

// writeServiceError maps err onto the error envelope. Causes of 5xx answers
// are only logged and reported, never sent to the caller.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceErrorWithMessage(w, r, err, "")
}

// writeServiceErrorWithMessage is writeServiceError with an override for the
// message of 401 answers.
func writeServiceErrorWithMessage(w http.ResponseWriter, r *http.Request, err error, unauthorizedMessage string) {
	log := logger.FromRequest(r)
	status, message := classifyError(err)

	var fields []models.FieldError
	var validationErr *validators.ValidationError
	if errors.As(err, &validationErr) {
		fields = validationErr.Fields
	}

	if status == http.StatusUnauthorized && unauthorizedMessage != "" {
		message = unauthorizedMessage
	}

	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", "writeServiceError").Str("uri", r.RequestURI).Msg("request failed")
		observability.CaptureError(err, map[string]any{
			"method": r.Method,
			"uri":    r.RequestURI,
		})
	} else {
		log.Debug().Err(err).Int("status", status).Msg(message)
	}

	writeError(w, r, status, message, fields)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, fields []models.FieldError) {
	if err := utils.WriteError(w, status, message, fields); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "writeError").Msg("error writing error response")
	}
}

func writeResponse(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	if err := utils.WriteResponse(w, status, data, message); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "writeResponse").Msg("error writing response")
	}
}

// decodeJSONBody decodes the request body into dst and answers the request
// itself when that fails. An empty body decodes as an empty object so that
// validation can report the missing fields.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	log := logger.FromRequest(r)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		log.Err(err).Int64("limit", maxBytesErr.Limit).Msg(app.MsgBodyTooLarge)
		writeError(w, r, http.StatusRequestEntityTooLarge, app.MsgBodyTooLarge, nil)
	case errors.Is(err, models.ErrInvalidDueDate):
		log.Err(err).Msg(app.MsgValidationFailed)
		writeError(w, r, http.StatusBadRequest, app.MsgValidationFailed, []models.FieldError{
			{Field: "dueDate", Message: models.ErrInvalidDueDate.Error()},
		})
	default:
		log.Err(err).Msg(app.MsgInvalidJSON)
		writeError(w, r, http.StatusBadRequest, app.MsgInvalidJSON, nil)
	}

	return false
}
