package booking

import (
	"fmt"
	"net/http"
	"time"

	"github.com/unispace-app/unispace-backend/internal/pkg/apperror"
	"github.com/unispace-app/unispace-backend/internal/schedule"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "Booking not found")
	ErrTimeConflict      = apperror.New(http.StatusConflict, "Booking conflict: Facility is already booked for this time slot")
	ErrInvalidTimeRange  = apperror.New(http.StatusBadRequest, "Start time must be before end time")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "Status must be one of: pending, confirmed, cancelled")
	ErrCancelledOnCreate = apperror.New(http.StatusBadRequest, "New bookings must be pending or confirmed")
	ErrInvalidTransition = apperror.New(http.StatusBadRequest, "Invalid booking status transition")
	ErrFacilityNotFound  = apperror.New(http.StatusNotFound, "Facility not found")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "Permission denied")
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine allows moving to next.
// Any status may be cancelled, pending may be confirmed, and nothing leaves
// cancelled. Re-asserting the current status is a no-op and always allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	switch {
	case next == StatusCancelled:
		return s != StatusCancelled
	case s == StatusPending && next == StatusConfirmed:
		return true
	}
	return false
}

// Booking is a reservation of a facility for a time range on one date.
// Date carries only the calendar day; Start and End are times of day.
type Booking struct {
	ID           string // UUID
	FacilityID   string
	FacilityName string
	UserID       string
	UserName     string
	UserEmail    string
	Date         time.Time
	Start        schedule.TimeOfDay
	End          schedule.TimeOfDay
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Range returns the booking's time range.
func (b *Booking) Range() schedule.TimeRange {
	return schedule.NewTimeRange(b.Start, b.End)
}

// Filter defines parameters for listing bookings.
type Filter struct {
	FacilityID string
	UserID     string
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Availability is the slot breakdown for one facility and date.
type Availability struct {
	FacilityID     string               `json:"facility_id"`
	Date           string               `json:"date"`
	AvailableSlots []schedule.TimeRange `json:"available_slots"`
	BookedSlots    []schedule.TimeRange `json:"booked_slots"`
}

// ConflictError reports that a candidate time range collides with an active
// reservation. It unwraps to ErrTimeConflict so callers can distinguish
// conflicts (retry with another slot) from internal failures.
type ConflictError struct {
	FacilityID string
	Date       time.Time
	Range      schedule.TimeRange
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"Booking conflict: facility %s is already booked on %s from %s to %s",
		e.FacilityID,
		e.Date.Format(schedule.DateFormat),
		e.Range.Start, e.Range.End,
	)
}

func (e *ConflictError) Unwrap() error {
	return ErrTimeConflict
}
