package validators

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-todo-keeper/models"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries the list of rejected request fields.
type ValidationError struct {
	Fields []models.FieldError
}

// NewValidationError builds a ValidationError from the given field errors.
func NewValidationError(fields ...models.FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
