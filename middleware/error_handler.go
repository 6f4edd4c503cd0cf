package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallymatic/tallymatic-api/config"
	"github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/logger"
)

const internalErrorMessage = "Internal Server Error"

type ErrorResponse struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// ErrorHandler is the only writer on the error path. Handlers and middleware
// forward failures with c.Error; after the chain returns, the last error is
// converted to an AppError, logged and serialized.
func ErrorHandler(cfg *config.Config) gin.HandlerFunc {
	production := cfg.IsProduction()
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		appErr := convert(last)
		status := appErr.StatusCode()

		logger.LogHTTPError(c, appErr, status, string(appErr.Type)+" error")
		if c.Writer.Written() {
			return
		}

		response := ErrorResponse{
			Code:    status,
			Type:    string(appErr.Type),
			Message: appErr.Message,
		}
		if production {
			if !appErr.Operational {
				response.Message = internalErrorMessage
			}
		} else {
			response.Details = appErr.Detail
			response.Stack = appErr.Stack
		}

		c.AbortWithStatusJSON(status, response)
	}
}

// convert handles gin's own binding errors before falling back to errors.Convert.
func convert(ginErr *gin.Error) *errors.AppError {
	if ginErr.IsType(gin.ErrorTypeBind) {
		appErr := errors.ValidationFailed("Invalid request body", ginErr.Err.Error())
		appErr.HTTPStatus = http.StatusBadRequest
		return appErr
	}
	return errors.Convert(ginErr.Err)
}
