// Package apierror provides the error envelopes returned by the API.
// Every 4xx/5xx body is one of these, so clients never see stack traces or
// database errors.
package apierror

// APIError is the canonical error envelope: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps per-field validator tags.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// ConflictError is the 409 body for duplicates; Code is machine readable
// (DUP_NUMERO, DUP_DNI, DUP_BAJA, DUP_USERNAME) and Field names the column.
type ConflictError struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
	Field  string `json:"field"`
}

func NewConflict(code, field, msg string) *ConflictError {
	return &ConflictError{Detail: msg, Code: code, Field: field}
}
