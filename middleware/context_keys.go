package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tallymatic/tallymatic-api/logger"
	"github.com/tallymatic/tallymatic-api/types"
)

// Keys under which the middleware stores request state in the gin context.
const (
	RequestIDKey = logger.RequestIDContextKey
	UserIDKey    = logger.UserIDContextKey
	PrincipalKey = "principal"
	UserKey      = "user"
)

// GetPrincipal returns the authenticated caller, if AuthMiddleware ran.
func GetPrincipal(c *gin.Context) (*types.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*types.Principal)
	return principal, ok && principal != nil
}

// GetUser returns the user record loaded by AuthMiddleware.
func GetUser(c *gin.Context) (*types.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*types.User)
	return user, ok && user != nil
}
