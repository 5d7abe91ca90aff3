package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// Error writes err with the status its code maps to. Unknown errors come out
// as a generic 500 so internals never leak to clients. The error is also
// recorded on the context so the error middleware logs it at request end.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	appErr := apperrors.From(err)
	c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
}
