package quiz

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches quiz attempt endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	attempts := router.Group("/quizzes/:quizId/attempts", auth)

	attempts.GET("", handler.ListAttempts)
	attempts.POST("", handler.StartAttempt)
	attempts.POST("/:attemptId/submit", handler.SubmitAttempt)
}
