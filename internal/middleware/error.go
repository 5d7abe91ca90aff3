package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clinicalos/clinic-api/internal/handler"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
)

// ErrorHandler logs deferred gin errors and turns the last one into the
// client response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}

		appErr := apperrors.From(c.Errors.Last().Err)
		c.JSON(appErr.StatusCode(), handler.NewErrorResponse(appErr.Message))
	}
}
