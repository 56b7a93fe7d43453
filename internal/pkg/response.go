package pkg

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/minimarket/internal/domain"
)

// InternalErrorMessage is the public message of every 500 response.
const InternalErrorMessage = "Error interno del servidor"

// DataResponse is the JSON envelope for single-resource responses.
type DataResponse struct {
	Data any `json:"data"`
}

// ErrorResponse is the JSON envelope for failed requests. Error carries the
// underlying failure message and is only set on 500 responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Success sends a 200 JSON response wrapping data as {"data": data}.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// List sends a 200 JSON response with a paginated result, which already has
// the {data, pagination} shape.
func List[T any](c *gin.Context, result *domain.PageResult[T]) {
	if result.Data == nil {
		result.Data = []T{}
	}
	c.JSON(http.StatusOK, result)
}

// Error sends a JSON error response. If err is a *domain.AppError, its code is
// mapped to the appropriate HTTP status; otherwise 500 is returned.
//
// 4xx responses carry the AppError message. 500 responses carry the generic
// InternalErrorMessage plus the underlying failure in the "error" field.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	if status >= http.StatusInternalServerError {
		c.JSON(status, ErrorResponse{
			Success: false,
			Message: InternalErrorMessage,
			Error:   domain.Cause(err),
		})
		return
	}

	msg := http.StatusText(status)
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	c.JSON(status, ErrorResponse{
		Success: false,
		Message: msg,
	})
}
