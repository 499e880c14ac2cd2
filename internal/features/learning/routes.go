package learning

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches lesson completion endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	router.POST("/lessons/:lessonId/complete", auth, handler.CompleteLesson)
}
