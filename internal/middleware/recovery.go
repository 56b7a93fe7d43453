package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/minimarket/internal/domain"
	"github.com/simp-lee/minimarket/internal/pkg"
)

// errPanic is reported in place of the panic value, which stays in the logs.
var errPanic = domain.NewAppError(domain.CodeInternal, "unexpected panic", nil)

// Recovery returns a gin middleware that recovers from panics, logs the error
// with stack trace using slog, and answers with the API's 500 envelope:
//
//	{"success": false, "message": "Error interno del servidor", "error": "unexpected panic"}
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				c.Abort()
				if c.Writer.Written() {
					return
				}
				pkg.Error(c, errPanic)
			}
		}()
		c.Next()
	}
}
