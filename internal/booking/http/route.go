package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		// Fixed paths must come before /:id
		group.GET("/availability/check", h.Availability)
		group.GET("/user/history", h.History)

		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.PATCH("/:id/status", h.UpdateStatus)
		group.DELETE("/:id", h.Cancel)
		group.DELETE("/:id/permanent", adminMiddleware, h.DeletePermanent)
	}
}
