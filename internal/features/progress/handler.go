package progress

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/lms-progress-server-go/internal/features/catalog"
	"github.com/mo-amir99/lms-progress-server-go/internal/middleware"
	"github.com/mo-amir99/lms-progress-server-go/pkg/response"
	"github.com/mo-amir99/lms-progress-server-go/pkg/validation"
)

// CourseChecker confirms a course exists before progress is reported.
type CourseChecker interface {
	CourseExists(ctx context.Context, courseID uuid.UUID) (bool, error)
}

// Handler serves progress queries.
type Handler struct {
	service *Service
	courses CourseChecker
	logger  *slog.Logger
}

// NewHandler constructs a progress handler.
func NewHandler(service *Service, courses CourseChecker, logger *slog.Logger) *Handler {
	return &Handler{service: service, courses: courses, logger: logger}
}

// GetCourseProgress returns the caller's progress snapshot for a course.
func (h *Handler) GetCourseProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Access denied.", nil)
		return
	}

	courseID, err := validation.PathID(c, "courseId", "course id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	exists, err := h.courses.CourseExists(c.Request.Context(), courseID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !exists {
		_ = c.Error(catalog.ErrCourseNotFound)
		return
	}

	snap, err := h.service.Snapshot(c.Request.Context(), userID, courseID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, snap, "", nil)
}
