package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts public file download routes.
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	files := rg.Group("/files")
	{
		files.GET("/:id", h.Download)
		files.GET("/:id/thumbnail", h.DownloadThumbnail)
	}
}
