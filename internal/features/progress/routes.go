package progress

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches progress endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	courses := router.Group("/courses")
	courses.GET("/:courseId/progress", auth, handler.GetCourseProgress)
}
