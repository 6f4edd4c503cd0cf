package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tallymatic/tallymatic-api/config"
)

// CORSMiddleware allows the configured dashboard origins. "*" allows every origin
// and "*.example.com" allows any subdomain of example.com.
func CORSMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Length",
			"Content-Type",
			"Authorization",
			"Accept",
			"Prefer",
			RequestIDHeader,
		},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 0 || containsOrigin(cfg.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
		return cors.New(corsConfig)
	}

	allowed := cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowOriginFunc = func(origin string) bool {
		for _, allowedOrigin := range allowed {
			if allowedOrigin == origin {
				return true
			}
			if strings.HasPrefix(allowedOrigin, "*.") && strings.HasSuffix(origin, allowedOrigin[1:]) {
				return true
			}
		}
		return false
	}
	return cors.New(corsConfig)
}

func containsOrigin(origins []string, origin string) bool {
	for _, v := range origins {
		if v == origin {
			return true
		}
	}
	return false
}
