package request

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/pkg/apperrors"
	"github.com/mo-amir99/lms-progress-server-go/pkg/response"
)

// Handler returns a middleware that renders errors attached with c.Error.
// AppErrors keep their status and code; anything else is an internal fault.
func Handler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if err == nil {
			return
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.StatusCode() >= http.StatusInternalServerError {
				response.ErrorWithLog(logger, c, appErr.StatusCode(), appErr.Message(), err)
				return
			}
			logger.DebugContext(c.Request.Context(), "request rejected",
				slog.String("code", string(appErr.Code())),
				slog.String("error", err.Error()),
			)
			response.AppError(c, appErr)
			return
		}

		status, message := classify(err)
		response.ErrorWithLog(logger, c, status, message, err)
	}
}

func classify(err error) (int, string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, "Resource not found"
	}
	return http.StatusInternalServerError, "Internal server error"
}
