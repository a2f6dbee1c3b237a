package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("mother", nil), http.StatusNotFound},
		{"validation", Validation("parity must not be negative"), http.StatusBadRequest},
		{"conflict", Conflict("phone number already registered", nil), http.StatusConflict},
		{"unauthorized", Unauthorized(nil), http.StatusUnauthorized},
		{"internal", Internal(nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAsUnwrapsChain(t *testing.T) {
	base := Conflict("phone number already registered", nil)
	wrapped := fmt.Errorf("register mother: %w", base)

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrConflict, appErr.Code)
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsNotFound(wrapped))
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("alert", fmt.Errorf("sql: no rows in result set"))
	assert.Equal(t, "alert not found: sql: no rows in result set", err.Error())
	assert.NotNil(t, err.Unwrap())

	bare := Validation("title is required")
	assert.Equal(t, "title is required", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
