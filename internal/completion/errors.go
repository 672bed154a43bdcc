package completion

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when no completion backend is available, for
// example when no API key is set.
var ErrNotConfigured = errors.New("completion backend not configured")

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("empty completion response")

// FieldError is one schema violation in a completion response.
type FieldError struct {
	Field   string
	Message string
}

// SchemaError reports a response that does not match the requested schema.
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "completion response does not match schema: " + strings.Join(parts, "; ")
}
