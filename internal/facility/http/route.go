package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers facility routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/facilities")

	// Public browsing
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	// Admin management
	admin := group.Group("")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/photo", h.UploadPhoto)
	}
}
