package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("bad mime", nil), http.StatusBadRequest, CodeValidation},
		{"wrapped not found", fmt.Errorf("upload: %w", NotFound("job", "j1")), http.StatusNotFound, CodeNotFound},
		{"external", External("document store", "put failed", errors.New("dial tcp")), http.StatusBadGateway, CodeExternalService},
		{"unauthorized", &UnauthorizedError{Message: "missing bearer token"}, http.StatusUnauthorized, CodeUnauthorized},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := Map(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, payload.Code)
			assert.NotEmpty(t, payload.Message)
		})
	}
}

func TestMap_DoesNotLeakInternals(t *testing.T) {
	_, payload := Map(errors.New("pq: password authentication failed for user admin"))
	assert.Equal(t, "internal server error", payload.Message)

	_, payload = Map(External("document store", "put failed", errors.New("secret-key-123 rejected")))
	assert.NotContains(t, payload.Message, "secret-key-123")
}

func TestExternalServiceError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := External("completion", "call failed", cause)
	assert.ErrorIs(t, err, cause)
}
