package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tallymatic/tallymatic-api/errors"
)

// CustomRecovery turns a panic further down the chain into a forwarded error so
// ErrorHandler writes the response.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				_ = c.Error(errors.FromPanic(rec))
				c.Abort()
			}
		}()
		c.Next()
	}
}
