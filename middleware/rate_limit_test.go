package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"github.com/tallymatic/tallymatic-api/config"
)

func rateLimitedRouter(limiter gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(testConfig(config.EnvTest)), limiter)
	r.POST("/v1/auth/login", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func loginRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	return req
}

func TestAuthRateLimiter(t *testing.T) {
	const key = "ratelimit:auth:192.168.1.1"
	window := 15 * time.Minute

	t.Run("allows requests under the limit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectTxPipeline()
		mock.ExpectIncr(key).SetVal(2)
		mock.ExpectExpireNX(key, window).SetVal(false)
		mock.ExpectTxPipelineExec()

		w := httptest.NewRecorder()
		rateLimitedRouter(AuthRateLimiter(client, 5, window)).ServeHTTP(w, loginRequest())

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Remaining"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blocks requests over the limit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectTxPipeline()
		mock.ExpectIncr(key).SetVal(6)
		mock.ExpectExpireNX(key, window).SetVal(false)
		mock.ExpectTxPipelineExec()
		mock.ExpectTTL(key).SetVal(90 * time.Second)

		w := httptest.NewRecorder()
		rateLimitedRouter(AuthRateLimiter(client, 5, window)).ServeHTTP(w, loginRequest())

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "90", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "Too many requests")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails open when redis is unavailable", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectTxPipeline()
		mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

		w := httptest.NewRecorder()
		rateLimitedRouter(AuthRateLimiter(client, 5, window)).ServeHTTP(w, loginRequest())

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
