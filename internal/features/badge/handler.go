package badge

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/lms-progress-server-go/internal/middleware"
	"github.com/mo-amir99/lms-progress-server-go/pkg/response"
)

// Handler serves badge queries.
type Handler struct {
	evaluator *Evaluator
	logger    *slog.Logger
}

// NewHandler constructs a badge handler.
func NewHandler(evaluator *Evaluator, logger *slog.Logger) *Handler {
	return &Handler{evaluator: evaluator, logger: logger}
}

// Mine returns the caller's badges and point total.
func (h *Handler) Mine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Access denied.", nil)
		return
	}

	summary, err := h.evaluator.ListForUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, summary, "", nil)
}
