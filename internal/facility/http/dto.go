package http

import (
	"time"

	"github.com/unispace-app/unispace-backend/internal/facility"
	"github.com/unispace-app/unispace-backend/internal/photo"
)

// CreateFacilityRequest defines the payload for creating a facility.
type CreateFacilityRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

// UpdateFacilityRequest defines the payload for updating a facility.
type UpdateFacilityRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
}

// FacilityResponse is the shape of facility data returned by the API.
type FacilityResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Capacity     int       `json:"capacity"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewFacilityResponse converts a domain facility to its API shape.
func NewFacilityResponse(f *facility.Facility) FacilityResponse {
	resp := FacilityResponse{
		ID:        f.ID,
		Name:      f.Name,
		Location:  f.Location,
		Capacity:  f.Capacity,
		CreatedAt: f.CreatedAt,
	}

	if f.PhotoID != nil {
		u := photo.URL(*f.PhotoID)
		t := photo.ThumbnailURL(*f.PhotoID)
		resp.PhotoURL = &u
		resp.ThumbnailURL = &t
	}

	return resp
}
