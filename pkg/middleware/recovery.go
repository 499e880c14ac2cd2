package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/lms-progress-server-go/pkg/apperrors"
	"github.com/mo-amir99/lms-progress-server-go/pkg/metrics"
	"github.com/mo-amir99/lms-progress-server-go/pkg/response"
)

// Recovery turns a handler panic into a 500 in the standard error envelope.
// The panic value and stack go to the log only. If the handler already
// started writing, the status cannot change and the connection is left to
// the server.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	internal := apperrors.New("internal server error", http.StatusInternalServerError, apperrors.ErrInternal, nil)

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			metrics.PanicRecovered(c.FullPath())
			logger.ErrorContext(c.Request.Context(), "panic recovered",
				slog.String("request_id", GetRequestID(c)),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("panic", fmt.Sprint(rec)),
				slog.String("stack", string(debug.Stack())),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.AppError(c, internal)
			c.Abort()
		}()

		c.Next()
	}
}
