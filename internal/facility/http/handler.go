package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/unispace-app/unispace-backend/internal/auth"
	"github.com/unispace-app/unispace-backend/internal/facility"
	"github.com/unispace-app/unispace-backend/internal/photo"
	"github.com/unispace-app/unispace-backend/internal/pkg/response"
)

// maxPhotoSize bounds uploaded facility photos (8 MiB).
const maxPhotoSize = 8 << 20

// Handler serves facility endpoints.
type Handler struct {
	service  facility.Service
	photoSvc photo.Service
}

// NewHandler creates a facility Handler.
func NewHandler(service facility.Service, photoSvc photo.Service) *Handler {
	return &Handler{
		service:  service,
		photoSvc: photoSvc,
	}
}

// List returns all facilities ordered by name.
func (h *Handler) List(c *gin.Context) {
	facilities, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]FacilityResponse, len(facilities))
	for i, f := range facilities {
		items[i] = NewFacilityResponse(f)
	}

	response.OK(c, items, "Facilities retrieved successfully")
}

// Get returns one facility by ID.
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "Facility ID must be a valid UUID")
		return
	}

	f, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, NewFacilityResponse(f), "Facility retrieved successfully")
}

// Create adds a facility. Admin only.
func (h *Handler) Create(c *gin.Context) {
	var req CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	f, err := h.service.Create(c.Request.Context(), facility.CreateRequest{
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, NewFacilityResponse(f), "Facility created successfully")
}

// Update modifies a facility. Admin only.
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "Facility ID must be a valid UUID")
		return
	}

	var req UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	f, err := h.service.Update(c.Request.Context(), id, facility.UpdateRequest{
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, NewFacilityResponse(f), "Facility updated successfully")
}

// Delete removes a facility. Admin only. Facilities with existing bookings
// cannot be deleted.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "Facility ID must be a valid UUID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, nil, "Facility deleted successfully")
}

// UploadPhoto attaches an uploaded photo to a facility. Admin only.
func (h *Handler) UploadPhoto(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "Facility ID must be a valid UUID")
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "A photo file is required")
		return
	}
	if header.Size > maxPhotoSize {
		response.Fail(c, http.StatusBadRequest, "Photo exceeds the maximum allowed size")
		return
	}

	// Ensure the facility exists before writing anything to storage.
	existing, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	p, err := h.photoSvc.Upload(c.Request.Context(), header, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	f, err := h.service.SetPhoto(c.Request.Context(), id, &p.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Best effort: remove the replaced photo so storage does not accumulate
	// orphans.
	if existing.PhotoID != nil && *existing.PhotoID != p.ID {
		if err := h.photoSvc.Delete(c.Request.Context(), *existing.PhotoID); err != nil {
			log.Printf("warning: failed to delete replaced photo %s: %v", *existing.PhotoID, err)
		}
	}

	response.OK(c, NewFacilityResponse(f), "Facility photo uploaded successfully")
}
