package certificate

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches certificate endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	certificates := router.Group("/certificates")

	certificates.GET("/verify/:code", handler.Verify)
	certificates.GET("", auth, handler.List)
}
