package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/go-playground/validator/v10"
)

const (
	tagNotBlank   = "notblank"
	tagTrimmedMin = "trimmedmin"
	tagMaxBytes   = "maxbytes"
	tagIdentity   = "identity"
)

// RequestValidator validates decoded request bodies using the `validate`
// struct tags declared on the models. Field names in the reported errors are
// taken from the `json` tags so that they match what the caller sent.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator constructs a RequestValidator with the custom rules
// used by the models registered.
func NewRequestValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	// registration errors only happen for empty tags or nil funcs
	_ = v.RegisterValidation(tagNotBlank, notBlank)
	_ = v.RegisterValidation(tagTrimmedMin, trimmedMin)
	_ = v.RegisterValidation(tagMaxBytes, maxBytes)
	v.RegisterStructValidation(loginIdentity, models.LoginRequest{})

	return &RequestValidator{validate: v}
}

// Validate checks obj, which must be a struct or a pointer to one. When
// fields are given only those Go struct fields are checked.
//
// Rule violations are returned as *ValidationError; any other failure wraps
// ErrUnsupportedType.
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	} else {
		err = v.validate.StructCtx(ctx, obj)
	}
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, invalid.Error())
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrUnsupportedType, err)
	}

	out := make([]models.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, models.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}

	return NewValidationError(out...)
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case tagNotBlank:
		return field + " must not be empty"
	case "email":
		return field + " must be a valid email"
	case "min", tagTrimmedMin:
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case tagMaxBytes:
		return fmt.Sprintf("%s must be at most %s bytes", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case tagIdentity:
		return "username or email is required"
	default:
		return field + " is invalid"
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// trimmedMin counts runes after surrounding whitespace is removed, which is
// the form the value is stored in.
func trimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

// maxBytes limits the encoded length; "max" counts runes. bcrypt rejects
// passwords longer than 72 bytes.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

func loginIdentity(sl validator.StructLevel) {
	req := sl.Current().Interface().(models.LoginRequest)
	if strings.TrimSpace(req.Username) == "" && strings.TrimSpace(req.Email) == "" {
		sl.ReportError(req.Username, "username", "Username", tagIdentity, "")
	}
}
