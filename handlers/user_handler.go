package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/middleware"
	"github.com/tallymatic/tallymatic-api/types"
)

// UserHandler serves the user CRUD endpoints plus GET /me.
type UserHandler struct {
	*ResourceHandler[types.User, types.CreateUserRequest, types.UpdateUserRequest]
}

func NewUserHandler(service ResourceService[types.User], checker PermissionChecker) *UserHandler {
	return &UserHandler{
		ResourceHandler: NewResourceHandler[types.User, types.CreateUserRequest, types.UpdateUserRequest](service, checker, types.UserResource),
	}
}

// Register mounts /me ahead of the CRUD routes.
func (h *UserHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.MeHandler())
	h.ResourceHandler.Register(rg)
}

// MeHandler returns the caller's own record. Self access needs no permission.
// @Summary Get the signed-in user
// @Tags users
// @Produce json
// @Success 200 {object} map[string]any "Record under the user key"
// @Failure 401 {object} middleware.ErrorResponse "Please authenticate"
// @Router /users/me [get]
// @Security BearerAuth
func (h *UserHandler) MeHandler() gin.HandlerFunc {
	return Dispatch(Authenticated, h.me)
}

func (h *UserHandler) me(c *gin.Context, req *Request) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		var err error
		user, err = h.service.GetByID(c.Request.Context(), req.Principal.ID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperrors.NotFound(types.UserResource.Label, req.Principal.ID)
		}
	}
	c.JSON(http.StatusOK, ShapeOne(types.UserResource, user))
	return nil
}
