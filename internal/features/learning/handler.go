package learning

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/lms-progress-server-go/internal/middleware"
	"github.com/mo-amir99/lms-progress-server-go/pkg/response"
	"github.com/mo-amir99/lms-progress-server-go/pkg/validation"
)

// Handler exposes the lesson completion pipeline.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a learning handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// CompleteLesson marks a lesson done for the caller.
func (h *Handler) CompleteLesson(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Access denied.", nil)
		return
	}

	lessonID, err := validation.PathID(c, "lessonId", "lesson id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	out, err := h.service.CompleteLesson(c.Request.Context(), userID, lessonID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	message := "Lesson completed"
	if out.CertificateGenerated {
		message = "Course completed, certificate issued"
	}
	response.Success(c, http.StatusOK, out, message, nil)
}
