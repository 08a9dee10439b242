package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"video-catalog/dto"
	"video-catalog/pkg/apperror"
)

type HandlerFunc func(c *gin.Context) error

// Wrap is the error boundary of the HTTP layer: any error returned by fn
// aborts the request with the error envelope.
func Wrap(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := fn(c)
		if err == nil {
			return
		}

		appErr := apperror.From(err)
		logger := zerolog.Ctx(c.Request.Context())
		event := logger.Warn()
		if appErr.StatusCode >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Err(err).Int("status", appErr.StatusCode).Str("path", c.FullPath()).Msg(appErr.Message)

		_ = c.Error(err)
		c.AbortWithStatusJSON(appErr.StatusCode, errorResponse(appErr))
	}
}

func errorResponse(err *apperror.Error) dto.ErrorResponse {
	details := err.Errors
	if details == nil {
		details = []string{}
	}
	return dto.ErrorResponse{
		StatusCode: err.StatusCode,
		Data:       nil,
		Message:    err.Message,
		Success:    false,
		Errors:     details,
	}
}

func respond(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, dto.NewResponse(statusCode, data, message))
}
