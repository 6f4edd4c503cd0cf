package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/internal/auth"
	"github.com/tallymatic/tallymatic-api/logger"
	"github.com/tallymatic/tallymatic-api/types"
)

// Validator verifies a signed token of the given type.
type Validator interface {
	Verify(tokenString string, tokenType types.TokenType) (*auth.Claims, error)
}

// UserLoader loads the account behind a token subject. A nil user means the
// account no longer exists.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*types.User, error)
}

const authFailedMessage = "Please authenticate"

// AuthMiddleware requires an "Authorization: Bearer <access token>" header. On
// success the Principal, the user record and the user id are stored in the gin
// context; every failure is forwarded as a 401.
func AuthMiddleware(validator Validator, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthenticated(c)
			return
		}

		claims, err := validator.Verify(token, types.TokenTypeAccess)
		if err != nil {
			log.Debugw("Rejected access token", "error", err, "path", c.Request.URL.Path)
			abortUnauthenticated(c)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if user == nil {
			log.Infow("Access token for deleted user", "userID", userID)
			abortUnauthenticated(c)
			return
		}

		c.Set(PrincipalKey, user.Principal())
		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID.String())
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthenticated(c *gin.Context) {
	_ = c.Error(apperrors.AuthenticationFailed(authFailedMessage))
	c.Abort()
}
