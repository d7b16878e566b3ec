package booking

import (
	"context"
	"errors"
	"time"

	"github.com/unispace-app/unispace-backend/internal/facility"
	"github.com/unispace-app/unispace-backend/internal/schedule"
)

// CreateRequest carries the fields for proposing a new booking.
type CreateRequest struct {
	FacilityID string
	UserID     string
	Date       time.Time
	Range      schedule.TimeRange
	Status     Status // optional; defaults to pending
}

// UpdateRequest carries optional fields for a full booking update.
type UpdateRequest struct {
	FacilityID *string
	Date       *time.Time
	Start      *schedule.TimeOfDay
	End        *schedule.TimeOfDay
	Status     *Status
}

// Service is the booking lifecycle gate: every create or time-changing update
// passes the conflict check before persisting, while status-only transitions
// go through the state machine and never re-validate overlap.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)
	Update(ctx context.Context, id string, req UpdateRequest, actorID string, actorIsAdmin bool) (*Booking, error)
	UpdateStatus(ctx context.Context, id string, status Status, actorID string, actorIsAdmin bool) (*Booking, error)
	Cancel(ctx context.Context, id string, actorID string, actorIsAdmin bool) (*Booking, error)
	Delete(ctx context.Context, id string) error
	Availability(ctx context.Context, facilityID string, date time.Time) (*Availability, error)
}

type service struct {
	repo        Repository
	facilitySvc facility.Service
}

// NewService creates a new booking Service.
func NewService(repo Repository, facilitySvc facility.Service) Service {
	return &service{
		repo:        repo,
		facilitySvc: facilitySvc,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if !req.Range.IsValid() {
		return nil, ErrInvalidTimeRange
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	// A booking cannot be born cancelled; cancellation is a transition on an
	// existing row.
	if status == StatusCancelled {
		return nil, ErrCancelledOnCreate
	}

	if _, err := s.facilitySvc.GetByID(ctx, req.FacilityID); err != nil {
		if errors.Is(err, facility.ErrNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}

	// Advisory conflict check against a fresh snapshot. The repository
	// re-verifies inside the insert transaction, and the exclusion
	// constraint is the final arbiter under concurrent writers.
	existing, err := s.repo.ListActiveRanges(ctx, req.FacilityID, req.Date, "")
	if err != nil {
		return nil, err
	}
	if schedule.HasConflict(req.Range, existing) {
		return nil, &ConflictError{FacilityID: req.FacilityID, Date: req.Date, Range: req.Range}
	}

	b := &Booking{
		FacilityID: req.FacilityID,
		UserID:     req.UserID,
		Date:       req.Date,
		Start:      req.Range.Start,
		End:        req.Range.End,
		Status:     status,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, b.ID)
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actorID string, actorIsAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actorIsAdmin && b.UserID != actorID {
		return nil, ErrPermissionDenied
	}

	timeChanged := false

	if req.FacilityID != nil && *req.FacilityID != b.FacilityID {
		if _, err := s.facilitySvc.GetByID(ctx, *req.FacilityID); err != nil {
			if errors.Is(err, facility.ErrNotFound) {
				return nil, ErrFacilityNotFound
			}
			return nil, err
		}
		b.FacilityID = *req.FacilityID
		timeChanged = true
	}
	if req.Date != nil && !req.Date.Equal(b.Date) {
		b.Date = *req.Date
		timeChanged = true
	}
	if req.Start != nil && *req.Start != b.Start {
		b.Start = *req.Start
		timeChanged = true
	}
	if req.End != nil && *req.End != b.End {
		b.End = *req.End
		timeChanged = true
	}

	if timeChanged {
		if !b.Range().IsValid() {
			return nil, ErrInvalidTimeRange
		}

		// Conflict check excludes the booking's own row: resubmitting
		// unchanged fields must not conflict with itself.
		existing, err := s.repo.ListActiveRanges(ctx, b.FacilityID, b.Date, b.ID)
		if err != nil {
			return nil, err
		}
		if schedule.HasConflict(b.Range(), existing) {
			return nil, &ConflictError{FacilityID: b.FacilityID, Date: b.Date, Range: b.Range()}
		}
	}

	if req.Status != nil && *req.Status != b.Status {
		next := *req.Status
		if !next.IsValid() {
			return nil, ErrInvalidStatus
		}
		if !b.Status.CanTransitionTo(next) {
			return nil, ErrInvalidTransition
		}
		// Booking owners may only cancel; admins may set any status.
		if !actorIsAdmin && next != StatusCancelled {
			return nil, ErrPermissionDenied
		}
		b.Status = next
	}

	if timeChanged {
		if err := s.repo.UpdateWithConflictCheck(ctx, b); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.Update(ctx, b); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, b.ID)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status, actorID string, actorIsAdmin bool) (*Booking, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actorIsAdmin {
		if b.UserID != actorID {
			return nil, ErrPermissionDenied
		}
		if status != StatusCancelled {
			return nil, ErrPermissionDenied
		}
	}

	if !b.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	// Status-only changes never re-validate overlap: cancelling frees time,
	// and confirming a pending booking cannot introduce a new collision.
	b.Status = status
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *service) Cancel(ctx context.Context, id string, actorID string, actorIsAdmin bool) (*Booking, error) {
	return s.UpdateStatus(ctx, id, StatusCancelled, actorID, actorIsAdmin)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Availability(ctx context.Context, facilityID string, date time.Time) (*Availability, error) {
	if _, err := s.facilitySvc.GetByID(ctx, facilityID); err != nil {
		if errors.Is(err, facility.ErrNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}

	booked, err := s.repo.ListActiveRanges(ctx, facilityID, date, "")
	if err != nil {
		return nil, err
	}

	// booked_slots is a passthrough of the raw active ranges for display.
	if booked == nil {
		booked = make([]schedule.TimeRange, 0)
	}

	return &Availability{
		FacilityID:     facilityID,
		Date:           date.Format(schedule.DateFormat),
		AvailableSlots: schedule.Availability(booked),
		BookedSlots:    booked,
	}, nil
}
