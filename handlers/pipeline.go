package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/middleware"
	"github.com/tallymatic/tallymatic-api/types"
)

// Request carries what earlier stages resolved to the later ones.
type Request struct {
	Principal *types.Principal
	ID        uuid.UUID
}

// Stage is one step of an endpoint. Returning an error ends the request.
type Stage func(c *gin.Context, req *Request) error

// Dispatch runs stages in order and stops at the first error, which is forwarded
// to the error handler. A typical resource endpoint is
// Dispatch(Authenticated, Authorize(...), ParseID, handle).
func Dispatch(stages ...Stage) gin.HandlerFunc {
	return Wrap(func(c *gin.Context) error {
		req := &Request{}
		for _, stage := range stages {
			if err := stage(c, req); err != nil {
				return err
			}
		}
		return nil
	})
}

// Wrap adapts an error-returning handler to gin. Exactly one of two things happens
// per call: the handler writes a response, or an error (a returned one, a
// recovered panic, or a missing response) is forwarded with c.Error.
func Wrap(fn func(c *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				forward(c, apperrors.FromPanic(rec))
			}
		}()

		if err := fn(c); err != nil {
			forward(c, err)
			return
		}
		if !c.Writer.Written() {
			forward(c, apperrors.InternalServerError(fmt.Sprintf("%s %s completed without a response", c.Request.Method, c.FullPath())))
		}
	}
}

func forward(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Authenticated loads the Principal stored by the auth middleware. Its absence
// means the route was registered without authentication.
func Authenticated(c *gin.Context, req *Request) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return apperrors.InternalServerError(fmt.Sprintf("no principal on %s %s", c.Request.Method, c.FullPath()))
	}
	req.Principal = principal
	return nil
}

// Authorize denies the request unless one of the principal's roles grants action
// on resource.
func Authorize(checker PermissionChecker, action types.Action, resource types.Resource) Stage {
	return func(c *gin.Context, req *Request) error {
		if req.Principal == nil {
			return apperrors.InternalServerError("authorization ran before authentication")
		}
		if !checker.CheckPermissions(req.Principal.Roles, action, resource) {
			return apperrors.Forbidden(
				fmt.Sprintf("You do not have permission to %s %s", action, resource.Words()),
				fmt.Sprintf("roles: %v", req.Principal.Roles),
			)
		}
		return nil
	}
}

// ParseID converts the :id path parameter into a uuid.
func ParseID(c *gin.Context, req *Request) error {
	raw := c.Param("id")
	if raw == "" {
		return apperrors.BadRequest("Missing id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return apperrors.ValidationFailed("Invalid id", raw)
	}
	req.ID = id
	return nil
}
