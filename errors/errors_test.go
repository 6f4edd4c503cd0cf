package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ValidationError, "invalid input", "field required")
	assert.Equal(t, ValidationError, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "field required", err.Detail)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.True(t, err.Operational)
	assert.NotEmpty(t, err.Stack)
}

func TestWrap(t *testing.T) {
	originalErr := fmt.Errorf("original error")
	wrappedErr := Wrap(originalErr, ConflictError, "already exists")

	assert.Equal(t, ConflictError, wrappedErr.Type)
	assert.Equal(t, "already exists", wrappedErr.Message)
	assert.Equal(t, originalErr.Error(), wrappedErr.Detail)
	assert.Equal(t, http.StatusConflict, wrappedErr.HTTPStatus)
	assert.ErrorIs(t, wrappedErr, originalErr)

	assert.Nil(t, Wrap(nil, ServerError, "nothing"))
}

func TestNotFound(t *testing.T) {
	err := NotFound("User", 123)
	assert.Equal(t, NotFoundError, err.Type)
	assert.Equal(t, "User not found", err.Message)
	assert.Equal(t, "ID: 123", err.Detail)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)

	err = NotFound("Not", nil)
	assert.Equal(t, "Not not found", err.Message)
	assert.Empty(t, err.Detail)
}

func TestHelperStatuses(t *testing.T) {
	testCases := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"bad request", BadRequest("bad"), http.StatusBadRequest},
		{"validation", ValidationFailed("Invalid email", "format"), http.StatusBadRequest},
		{"authentication", AuthenticationFailed("Please authenticate"), http.StatusUnauthorized},
		{"forbidden", Forbidden("nope", ""), http.StatusForbidden},
		{"conflict", Conflict("dup", ""), http.StatusConflict},
		{"rate limit", RateLimitExceeded("slow down", 30), http.StatusTooManyRequests},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.HTTPStatus)
			assert.Equal(t, tc.status, tc.err.StatusCode())
		})
	}
}

func TestInternalServerError_IsNotOperational(t *testing.T) {
	assert.False(t, InternalServerError("principal missing").Operational)
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "with detail",
			err: &AppError{
				Type:    ValidationError,
				Message: "invalid input",
				Detail:  "field required",
			},
			expected: "VALIDATION_ERROR: invalid input (field required)",
		},
		{
			name: "without detail",
			err: &AppError{
				Type:    AuthError,
				Message: "unauthorized",
			},
			expected: "AUTHENTICATION_ERROR: unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestConvert(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Convert(nil))
	})

	t.Run("application errors pass through", func(t *testing.T) {
		original := Forbidden("You do not have permission to create users", "")
		converted := Convert(original)
		assert.Same(t, original, converted)
	})

	t.Run("wrapped application errors pass through", func(t *testing.T) {
		original := NotFound("Product", "abc")
		converted := Convert(fmt.Errorf("service: %w", original))
		assert.Same(t, original, converted)
	})

	t.Run("unknown errors become non-operational 500s", func(t *testing.T) {
		raw := fmt.Errorf("connection refused")
		converted := Convert(raw)
		require.NotNil(t, converted)
		assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
		assert.Equal(t, "connection refused", converted.Message)
		assert.False(t, converted.Operational)
		assert.NotEmpty(t, converted.Stack)
		assert.ErrorIs(t, converted, raw)
	})
}

func TestFromPanic(t *testing.T) {
	fromString := FromPanic("nil map write")
	assert.Equal(t, http.StatusInternalServerError, fromString.HTTPStatus)
	assert.Equal(t, "panic: nil map write", fromString.Message)
	assert.False(t, fromString.Operational)

	raw := fmt.Errorf("index out of range")
	fromErr := FromPanic(raw)
	assert.ErrorIs(t, fromErr, raw)
}
