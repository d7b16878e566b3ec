package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/unispace-app/unispace-backend/internal/auth"
	"github.com/unispace-app/unispace-backend/internal/booking"
	"github.com/unispace-app/unispace-backend/internal/pkg/response"
	"github.com/unispace-app/unispace-backend/internal/schedule"
)

// Handler serves booking endpoints.
type Handler struct {
	service booking.Service
}

// NewHandler creates a booking Handler.
func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func isAdmin(c *gin.Context) bool {
	return auth.GetUserRole(c) == "admin"
}

// bookingError maps service errors to the envelope, surfacing the detailed
// conflict message (facility, date, range) for 409s.
func bookingError(c *gin.Context, err error) {
	var conflict *booking.ConflictError
	if errors.As(err, &conflict) {
		response.Fail(c, http.StatusConflict, conflict.Error())
		return
	}
	response.Error(c, err)
}

// List returns bookings. Admins see everything and may filter by user;
// everyone else is restricted to their own bookings.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindingError(c, err)
		return
	}
	req.Normalize()

	filter := booking.Filter{
		FacilityID: req.FacilityID,
		Status:     req.Status,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	if isAdmin(c) {
		filter.UserID = req.UserID // empty shows all
	} else {
		filter.UserID = auth.GetUserID(c)
	}

	if req.DateFrom != "" {
		t, err := time.Parse(schedule.DateFormat, req.DateFrom)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "date_from must be a valid date (YYYY-MM-DD)")
			return
		}
		filter.DateFrom = &t
	}
	if req.DateTo != "" {
		t, err := time.Parse(schedule.DateFormat, req.DateTo)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "date_to must be a valid date (YYYY-MM-DD)")
			return
		}
		filter.DateTo = &t
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	page := response.NewPage(items, req.Page, req.PageSize, total)
	response.OK(c, page, "Bookings retrieved successfully")
}

// Get returns one booking. Owners and admins only.
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "Booking ID must be a valid UUID")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !isAdmin(c) && b.UserID != auth.GetUserID(c) {
		response.Fail(c, http.StatusForbidden, "Permission denied")
		return
	}

	response.OK(c, NewBookingResponse(b), "Booking retrieved successfully")
}

// Create proposes a new booking for the authenticated user.
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	date, rng, err := req.Parse()
	if err != nil {
		response.ValidationFailed(c, []string{err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		FacilityID: req.FacilityID,
		UserID:     auth.GetUserID(c),
		Date:       date,
		Range:      rng,
		Status:     booking.Status(req.Status),
	})
	if err != nil {
		bookingError(c, err)
		return
	}

	response.Created(c, NewBookingResponse(b), "Booking created successfully")
}

// Update performs a full booking update. Owners and admins only; the
// conflict check runs whenever the facility, date or time range changes.
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "Booking ID must be a valid UUID")
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	update := booking.UpdateRequest{FacilityID: req.FacilityID}

	if req.Date != nil {
		t, err := time.Parse(schedule.DateFormat, *req.Date)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "date must be a valid date (YYYY-MM-DD)")
			return
		}
		update.Date = &t
	}
	if req.StartTime != nil {
		st, err := schedule.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "start_time must be in HH:MM format")
			return
		}
		update.Start = &st
	}
	if req.EndTime != nil {
		et, err := schedule.ParseTimeOfDay(*req.EndTime)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "end_time must be in HH:MM format")
			return
		}
		update.End = &et
	}
	if req.Status != nil {
		st := booking.Status(*req.Status)
		update.Status = &st
	}

	b, err := h.service.Update(c.Request.Context(), id, update, auth.GetUserID(c), isAdmin(c))
	if err != nil {
		bookingError(c, err)
		return
	}

	response.OK(c, NewBookingResponse(b), "Booking updated successfully")
}

// UpdateStatus performs a status-only transition (approve, reject, cancel).
// Never triggers the conflict check.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "Booking ID must be a valid UUID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), id, booking.Status(req.Status), auth.GetUserID(c), isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, NewBookingResponse(b), "Booking "+req.Status+" successfully")
}

// Cancel marks a booking cancelled; the row is kept so availability history
// stays intact.
func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "Booking ID must be a valid UUID")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, auth.GetUserID(c), isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, NewBookingResponse(b), "Booking cancelled successfully")
}

// DeletePermanent removes the booking row entirely. Admin only.
func (h *Handler) DeletePermanent(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, "Booking ID must be a valid UUID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, nil, "Booking deleted successfully")
}

// Availability returns the free and booked slots for a facility and date.
func (h *Handler) Availability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	date, err := time.Parse(schedule.DateFormat, req.Date)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "date must be a valid date (YYYY-MM-DD)")
		return
	}

	avail, err := h.service.Availability(c.Request.Context(), req.FacilityID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, avail, "Availability retrieved successfully")
}

// History returns the authenticated user's bookings, most recent first.
func (h *Handler) History(c *gin.Context) {
	bookings, err := h.service.ListByUser(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	response.OK(c, items, "User bookings retrieved successfully")
}
