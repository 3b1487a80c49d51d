package utils

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"key": "value"}

	n, err := WriteJSON(w, data, http.StatusOK)
	require.NoError(t, err)
	assert.NotZero(t, n)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"key":"value"}`, w.Body.String())
}

func TestWriteJSON_MarshalError(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, math.Inf(1), http.StatusOK)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteResponse_Envelope(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteResponse(w, http.StatusCreated, map[string]int{"n": 1}, "created"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(http.StatusCreated), resp["statusCode"])
	assert.Equal(t, "created", resp["message"])
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, map[string]any{"n": float64(1)}, resp["data"])
}

func TestWriteError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteError(w, http.StatusBadRequest, "Validation failed",
		[]models.FieldError{{Field: "title", Message: "title is required"}}))

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed", resp.Message)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "title", resp.Errors[0].Field)
}

func TestWriteError_EmptyErrorsIsList(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteError(w, http.StatusNotFound, "Todo not found", nil))
	assert.Contains(t, w.Body.String(), `"errors":[]`)
}
