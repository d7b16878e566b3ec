package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers user and auth routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/users")

	// Public auth routes (must come before /:id)
	group.POST("/register", h.Register)
	group.POST("/login", h.Login)

	// Authenticated routes
	group.GET("/me", authMiddleware, h.Me)

	// Admin-only user management
	admin := group.Group("")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
