package badge

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches badge endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	router.GET("/badges/me", auth, handler.Mine)
}
