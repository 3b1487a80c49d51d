package models

// Response is the success envelope written by every handler.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the error envelope. Errors carries field-level detail for
// validation failures and is an empty list otherwise.
type ErrorResponse struct {
	StatusCode int          `json:"statusCode"`
	Message    string       `json:"message"`
	Errors     []FieldError `json:"errors"`
	Success    bool         `json:"success"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewResponse builds a success envelope. Success is derived from the status
// code.
func NewResponse(statusCode int, data any, message string) Response {
	return Response{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

// NewErrorResponse builds an error envelope. A nil errs is normalized to an
// empty list.
func NewErrorResponse(statusCode int, message string, errs []FieldError) ErrorResponse {
	if errs == nil {
		errs = []FieldError{}
	}
	return ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
		Success:    false,
	}
}

// HealthInfo is returned by GET /users/check.
type HealthInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
}
