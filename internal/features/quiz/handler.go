package quiz

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/lms-progress-server-go/internal/middleware"
	"github.com/mo-amir99/lms-progress-server-go/pkg/apperrors"
	"github.com/mo-amir99/lms-progress-server-go/pkg/pagination"
	"github.com/mo-amir99/lms-progress-server-go/pkg/response"
	"github.com/mo-amir99/lms-progress-server-go/pkg/validation"
)

// Handler processes quiz attempt HTTP requests.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a quiz handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type submitRequest struct {
	Answers []SubmittedAnswer `json:"answers" binding:"dive"`
}

// StartAttempt opens (or resumes) the caller's attempt.
func (h *Handler) StartAttempt(c *gin.Context) {
	userID, quizID, ok := h.identify(c)
	if !ok {
		return
	}

	attempt, created, err := h.service.StartAttempt(c.Request.Context(), userID, quizID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if created {
		response.Created(c, attempt, "Attempt started")
		return
	}
	response.Success(c, http.StatusOK, attempt, "Attempt in progress", nil)
}

// SubmitAttempt scores and closes an attempt.
func (h *Handler) SubmitAttempt(c *gin.Context) {
	userID, quizID, ok := h.identify(c)
	if !ok {
		return
	}

	attemptID, err := uuid.Parse(c.Param("attemptId"))
	if err != nil {
		_ = c.Error(ErrInvalidAttempt)
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Validation("invalid answers payload").WithFields(map[string]string{"answers": err.Error()}))
		return
	}

	result, err := h.service.SubmitAttempt(c.Request.Context(), userID, quizID, attemptID, req.Answers)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, result, "Attempt submitted", nil)
}

// ListAttempts returns the caller's attempts for a quiz.
func (h *Handler) ListAttempts(c *gin.Context) {
	userID, quizID, ok := h.identify(c)
	if !ok {
		return
	}

	page := pagination.Extract(c)
	attempts, total, err := h.service.ListAttempts(c.Request.Context(), userID, quizID, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, attempts, "", pagination.MetadataFrom(total, page))
}

func (h *Handler) identify(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Access denied.", nil)
		return uuid.Nil, uuid.Nil, false
	}

	quizID, err := validation.PathID(c, "quizId", "quiz id")
	if err != nil {
		_ = c.Error(err)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, quizID, true
}
