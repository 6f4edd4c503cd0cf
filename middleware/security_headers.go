package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tallymatic/tallymatic-api/config"
)

// SecurityHeadersMiddleware sets the helmet-style response headers. HSTS is only
// sent in production.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	production := cfg.IsProduction()
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "0")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cross-Origin-Resource-Policy", "same-origin")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if production {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
