package certificate

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/lms-progress-server-go/internal/middleware"
	"github.com/mo-amir99/lms-progress-server-go/pkg/pagination"
	"github.com/mo-amir99/lms-progress-server-go/pkg/response"
)

// Handler serves certificate listing and public verification.
type Handler struct {
	issuer  *Issuer
	courses CourseNamer
	logger  *slog.Logger
}

// NewHandler constructs a certificate handler.
func NewHandler(issuer *Issuer, courses CourseNamer, logger *slog.Logger) *Handler {
	return &Handler{issuer: issuer, courses: courses, logger: logger}
}

type verification struct {
	Valid       bool        `json:"valid"`
	CourseName  string      `json:"courseName,omitempty"`
	Certificate Certificate `json:"certificate"`
}

// List returns the caller's certificates.
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Access denied.", nil)
		return
	}

	page := pagination.Extract(c)
	certs, total, err := h.issuer.ListForUser(c.Request.Context(), userID, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, certs, "", pagination.MetadataFrom(total, page))
}

// Verify confirms a verification code. No authentication required.
func (h *Handler) Verify(c *gin.Context) {
	cert, err := h.issuer.Verify(c.Request.Context(), c.Param("code"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	name, err := h.courses.CourseName(c.Request.Context(), cert.CourseID)
	if err != nil {
		h.logger.WarnContext(c.Request.Context(), "verify without course name", slog.String("error", err.Error()))
	}

	response.Success(c, http.StatusOK, verification{Valid: true, CourseName: name, Certificate: cert}, "", nil)
}
