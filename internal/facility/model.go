package facility

import (
	"net/http"
	"time"

	"github.com/unispace-app/unispace-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "Facility not found")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "Facility name is required")
	ErrLocationRequired = apperror.New(http.StatusBadRequest, "Location is required")
	ErrInvalidCapacity  = apperror.New(http.StatusBadRequest, "Capacity must be a positive integer")
	ErrHasBookings      = apperror.New(http.StatusConflict, "Facility has existing bookings and cannot be deleted")
)

// Facility is a bookable room or space on campus.
type Facility struct {
	ID        string // UUID
	Name      string
	Location  string
	Capacity  int
	PhotoID   *string // optional uploaded photo
	CreatedAt time.Time
}
