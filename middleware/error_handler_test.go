package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallymatic/tallymatic-api/config"
	apperrors "github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/logger"
)

func init() {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
}

func testConfig(env config.Environment) *config.Config {
	return &config.Config{Server: config.ServerConfig{Environment: env}}
}

func runErrorHandler(t *testing.T, env config.Environment, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	r := gin.New()
	r.Use(ErrorHandler(testConfig(env)), CustomRecovery())
	r.GET("/test", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	var body ErrorResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestErrorHandler(t *testing.T) {
	testCases := []struct {
		name            string
		env             config.Environment
		err             error
		expectedStatus  int
		expectedMessage string
		expectStack     bool
	}{
		{
			name:            "operational error keeps its message in production",
			env:             config.EnvProduction,
			err:             apperrors.NotFound("User", nil),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "User not found",
		},
		{
			name:            "forbidden",
			env:             config.EnvProduction,
			err:             apperrors.Forbidden("You do not have permission to create users", ""),
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "You do not have permission to create users",
		},
		{
			name:            "unknown error is masked in production",
			env:             config.EnvProduction,
			err:             errors.New("pq: relation does not exist"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Internal Server Error",
		},
		{
			name:            "unknown error keeps detail in development",
			env:             config.EnvDevelopment,
			err:             errors.New("pq: relation does not exist"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "pq: relation does not exist",
			expectStack:     true,
		},
		{
			name:            "wrapped app error passes through",
			env:             config.EnvProduction,
			err:             errors.Join(errors.New("context"), apperrors.BadRequest("Invalid id")),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid id",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := runErrorHandler(t, tc.env, func(c *gin.Context) {
				_ = c.Error(tc.err)
			})

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, tc.expectedStatus, body.Code)
			assert.Equal(t, tc.expectedMessage, body.Message)
			assert.Equal(t, tc.expectStack, body.Stack != "")
		})
	}
}

func TestErrorHandler_RecoveredPanic(t *testing.T) {
	w, body := runErrorHandler(t, config.EnvProduction, func(c *gin.Context) {
		panic("boom")
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", body.Message)
	assert.Empty(t, body.Stack)
}

func TestErrorHandler_NoErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(testConfig(config.EnvTest)))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestErrorHandler_DoesNotOverwriteResponse(t *testing.T) {
	w, _ := runErrorHandler(t, config.EnvTest, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		_ = c.Error(errors.New("late failure"))
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}
