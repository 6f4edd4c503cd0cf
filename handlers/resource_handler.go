package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/types"
)

// ResourceHandler serves the five CRUD endpoints of one resource. C and U are the
// create and update bodies; both are bound from JSON and unknown fields are
// ignored.
type ResourceHandler[T any, C types.Valuer, U types.Valuer] struct {
	service  ResourceService[T]
	checker  PermissionChecker
	resource types.ResourceDescriptor
}

func NewResourceHandler[T any, C types.Valuer, U types.Valuer](service ResourceService[T], checker PermissionChecker, resource types.ResourceDescriptor) *ResourceHandler[T, C, U] {
	return &ResourceHandler[T, C, U]{
		service:  service,
		checker:  checker,
		resource: resource,
	}
}

// Register mounts the endpoints on a group that already runs the auth middleware.
func (h *ResourceHandler[T, C, U]) Register(rg *gin.RouterGroup) {
	rg.POST("", h.CreateHandler())
	rg.GET("", h.ListHandler())
	rg.GET("/:id", h.GetHandler())
	rg.PATCH("/:id", h.UpdateHandler())
	rg.DELETE("/:id", h.DeleteHandler())
}

// CreateHandler godoc
// @Summary Create a record
// @Tags resources
// @Accept json
// @Produce json
// @Param resource path string true "Resource path, e.g. products"
// @Success 201 {object} map[string]any "Record under its singular key"
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /{resource} [post]
// @Security BearerAuth
func (h *ResourceHandler[T, C, U]) CreateHandler() gin.HandlerFunc {
	return Dispatch(Authenticated, h.authorize(types.ActionCreate), h.create)
}

// ListHandler godoc
// @Summary List records
// @Tags resources
// @Produce json
// @Param resource path string true "Resource path, e.g. products"
// @Param sortBy query string false "field:asc or field:desc, comma separated"
// @Param limit query int false "Page size, at most 100"
// @Param page query int false "1-based page number"
// @Param projectBy query string false "field:include or field:hide, comma separated"
// @Success 200 {object} map[string]any "Records under the plural key with count, offset and limit"
// @Failure 403 {object} middleware.ErrorResponse
// @Router /{resource} [get]
// @Security BearerAuth
func (h *ResourceHandler[T, C, U]) ListHandler() gin.HandlerFunc {
	return Dispatch(Authenticated, h.authorize(types.ActionList), h.list)
}

// GetHandler godoc
// @Summary Get a record
// @Tags resources
// @Produce json
// @Param resource path string true "Resource path, e.g. products"
// @Param id path string true "Record id"
// @Success 200 {object} map[string]any "Record under its singular key"
// @Failure 404 {object} middleware.ErrorResponse
// @Router /{resource}/{id} [get]
// @Security BearerAuth
func (h *ResourceHandler[T, C, U]) GetHandler() gin.HandlerFunc {
	return Dispatch(Authenticated, h.authorize(types.ActionRead), ParseID, h.get)
}

// UpdateHandler godoc
// @Summary Update a record
// @Tags resources
// @Accept json
// @Produce json
// @Param resource path string true "Resource path, e.g. products"
// @Param id path string true "Record id"
// @Success 200 {object} map[string]any "Record under its singular key"
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /{resource}/{id} [patch]
// @Security BearerAuth
func (h *ResourceHandler[T, C, U]) UpdateHandler() gin.HandlerFunc {
	return Dispatch(Authenticated, h.authorize(types.ActionUpdate), ParseID, h.update)
}

// DeleteHandler godoc
// @Summary Delete a record
// @Tags resources
// @Param resource path string true "Resource path, e.g. products"
// @Param id path string true "Record id"
// @Param Prefer header string false "return=representation for a confirmation body"
// @Success 204
// @Success 200 {object} types.DeleteEnvelope
// @Failure 404 {object} middleware.ErrorResponse
// @Router /{resource}/{id} [delete]
// @Security BearerAuth
func (h *ResourceHandler[T, C, U]) DeleteHandler() gin.HandlerFunc {
	return Dispatch(Authenticated, h.authorize(types.ActionDelete), ParseID, h.delete)
}

func (h *ResourceHandler[T, C, U]) authorize(action types.Action) Stage {
	return Authorize(h.checker, action, h.resource.Resource)
}

func (h *ResourceHandler[T, C, U]) create(c *gin.Context, _ *Request) error {
	var body C
	if err := c.ShouldBindJSON(&body); err != nil {
		return apperrors.ValidationFailed("Invalid request body", err.Error())
	}
	if err := validate(body); err != nil {
		return err
	}
	record, err := h.service.Create(c.Request.Context(), body)
	if err != nil {
		return err
	}
	c.JSON(http.StatusCreated, ShapeOne(h.resource, record))
	return nil
}

func validate(body any) error {
	if v, ok := body.(types.Validator); ok {
		return v.Validate()
	}
	return nil
}

func (h *ResourceHandler[T, C, U]) list(c *gin.Context, _ *Request) error {
	filter := Pick(c, h.resource.Filters)
	opts := types.ParseQueryOptions(c.Query("sortBy"), c.Query("limit"), c.Query("page"), c.Query("projectBy"))

	page, err := h.service.Query(c.Request.Context(), filter, opts)
	if err != nil {
		return err
	}
	envelope, err := ShapeList(h.resource, page, opts.ProjectBy)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, envelope)
	return nil
}

func (h *ResourceHandler[T, C, U]) get(c *gin.Context, req *Request) error {
	record, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		return err
	}
	if record == nil {
		return apperrors.NotFound(h.resource.Label, req.ID)
	}
	c.JSON(http.StatusOK, ShapeOne(h.resource, record))
	return nil
}

// update relies on the service for the existence check.
func (h *ResourceHandler[T, C, U]) update(c *gin.Context, req *Request) error {
	var body U
	if err := c.ShouldBindJSON(&body); err != nil {
		return apperrors.ValidationFailed("Invalid request body", err.Error())
	}
	if err := validate(body); err != nil {
		return err
	}
	record, err := h.service.UpdateByID(c.Request.Context(), req.ID, body)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, ShapeOne(h.resource, record))
	return nil
}

// delete answers 204 unless the client asked for the confirmation body with
// "Prefer: return=representation".
func (h *ResourceHandler[T, C, U]) delete(c *gin.Context, req *Request) error {
	if err := h.service.DeleteByID(c.Request.Context(), req.ID); err != nil {
		return err
	}
	if strings.Contains(c.GetHeader("Prefer"), "return=representation") {
		c.JSON(http.StatusOK, ShapeDeleted(h.resource, req.ID))
		return nil
	}
	noContent(c)
	return nil
}

// Pick keeps the whitelisted query parameters that are present and non-empty.
func Pick(c *gin.Context, keys []string) types.Filter {
	filter := types.Filter{}
	for _, key := range keys {
		if value, ok := c.GetQuery(key); ok && value != "" {
			filter[key] = value
		}
	}
	return filter
}
