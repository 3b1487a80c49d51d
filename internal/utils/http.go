package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-todo-keeper/models"
)

// WriteJSON serializes data to JSON and writes it with the given status code
// and an "application/json" content type.
//
// If marshaling fails, it responds with 500 Internal Server Error and returns
// a wrapped error.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// WriteResponse writes the success envelope {statusCode, data, message, success}.
//
// Example usage:
//
//	utils.WriteResponse(w, http.StatusCreated, todo, "Todo created successfully")
func WriteResponse(w http.ResponseWriter, statusCode int, data any, message string) error {
	_, err := WriteJSON(w, models.NewResponse(statusCode, data, message), statusCode)
	return err
}

// WriteError writes the error envelope {statusCode, message, errors, success:false}.
func WriteError(w http.ResponseWriter, statusCode int, message string, errs []models.FieldError) error {
	_, err := WriteJSON(w, models.NewErrorResponse(statusCode, message, errs), statusCode)
	return err
}
