package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/unispace-app/unispace-backend/internal/photo"
	"github.com/unispace-app/unispace-backend/internal/pkg/response"
)

// Handler serves photo download endpoints. Uploads go through the facility
// module, which owns the attachment.
type Handler struct {
	service photo.Service
}

// NewHandler creates a photo Handler.
func NewHandler(service photo.Service) *Handler {
	return &Handler{service: service}
}

// Download streams the original photo content.
func (h *Handler) Download(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "Photo ID must be a valid UUID")
		return
	}

	rc, p, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, p.Size, p.ContentType, rc, nil)
}

// DownloadThumbnail streams the photo's JPEG thumbnail.
func (h *Handler) DownloadThumbnail(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "Photo ID must be a valid UUID")
		return
	}

	rc, _, err := h.service.DownloadThumbnail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	// Thumbnails are always re-encoded as JPEG; size is unknown up front.
	c.DataFromReader(http.StatusOK, -1, "image/jpeg", rc, nil)
}
