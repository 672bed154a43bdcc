// Package apperr holds the request-path error taxonomy and its mapping to
// transport status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes carried in error payloads.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
)

// ValidationError is bad input: shape, size or mime type. Never retried.
type ValidationError struct {
	Message string
	Details map[string]any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NotFoundError is a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ExternalServiceError is an unavailable document store or completion service.
type ExternalServiceError struct {
	Service string
	Message string
	Cause   error
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Cause
}

// UnauthorizedError is a missing or rejected bearer token.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// Validation is shorthand for a ValidationError with optional details.
func Validation(message string, details map[string]any) error {
	return &ValidationError{Message: message, Details: details}
}

// NotFound is shorthand for a NotFoundError.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// External wraps cause as an ExternalServiceError.
func External(service, message string, cause error) error {
	return &ExternalServiceError{Service: service, Message: message, Cause: cause}
}

// Payload is the structured body returned for request-path failures.
type Payload struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// Map converts err into a status code and payload. Unknown errors map to a
// generic 500 without leaking their text.
func Map(err error) (int, Payload) {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		external   *ExternalServiceError
		unauth     *UnauthorizedError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, Payload{Message: validation.Message, Code: CodeValidation, Details: validation.Details}
	case errors.As(err, &notFound):
		return http.StatusNotFound, Payload{
			Message: notFound.Error(),
			Code:    CodeNotFound,
			Details: map[string]any{"entity": notFound.Entity, "id": notFound.ID},
		}
	case errors.As(err, &external):
		return http.StatusBadGateway, Payload{
			Message: fmt.Sprintf("%s unavailable", external.Service),
			Code:    CodeExternalService,
			Details: map[string]any{"service": external.Service},
		}
	case errors.As(err, &unauth):
		return http.StatusUnauthorized, Payload{Message: unauth.Message, Code: CodeUnauthorized}
	default:
		return http.StatusInternalServerError, Payload{Message: "internal server error", Code: CodeInternal}
	}
}
