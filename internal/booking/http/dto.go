package http

import (
	"time"

	"github.com/unispace-app/unispace-backend/internal/booking"
	"github.com/unispace-app/unispace-backend/internal/pkg/request"
	"github.com/unispace-app/unispace-backend/internal/schedule"
)

// CreateBookingRequest defines the payload for creating a booking.
// Times are "HH:MM" strings and date is "YYYY-MM-DD", matching the client
// contract.
type CreateBookingRequest struct {
	FacilityID string `json:"facility_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	Status     string `json:"status" binding:"omitempty,oneof=pending confirmed"`
}

// Parse validates and converts the wire fields into domain values.
func (r *CreateBookingRequest) Parse() (date time.Time, rng schedule.TimeRange, err error) {
	date, err = time.Parse(schedule.DateFormat, r.Date)
	if err != nil {
		return time.Time{}, schedule.TimeRange{}, err
	}

	start, err := schedule.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return time.Time{}, schedule.TimeRange{}, err
	}
	end, err := schedule.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return time.Time{}, schedule.TimeRange{}, err
	}

	return date, schedule.NewTimeRange(start, end), nil
}

// UpdateBookingRequest defines the payload for a full booking update.
type UpdateBookingRequest struct {
	FacilityID *string `json:"facility_id" binding:"omitempty,uuid"`
	Date       *string `json:"date"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	Status     *string `json:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
}

// UpdateStatusRequest defines the payload for a status-only transition.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	FacilityID string `form:"facility_id" binding:"omitempty,uuid"`
	UserID     string `form:"user_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=date start_time created_at status"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// AvailabilityRequest defines query parameters for the availability check.
type AvailabilityRequest struct {
	FacilityID string `form:"facility_id" binding:"required,uuid"`
	Date       string `form:"date" binding:"required"`
}

// BookingResponse is the shape of booking data returned by the API.
type BookingResponse struct {
	ID           string    `json:"id"`
	FacilityID   string    `json:"facility_id"`
	FacilityName string    `json:"facility_name"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	Date         string    `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewBookingResponse converts a domain booking to its API shape.
func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		FacilityID:   b.FacilityID,
		FacilityName: b.FacilityName,
		UserID:       b.UserID,
		UserName:     b.UserName,
		UserEmail:    b.UserEmail,
		Date:         b.Date.Format(schedule.DateFormat),
		StartTime:    b.Start.String(),
		EndTime:      b.End.String(),
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}
