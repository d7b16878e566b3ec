package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unispace-app/unispace-backend/internal/facility"
	"github.com/unispace-app/unispace-backend/internal/schedule"
)

// fakeRepository keeps bookings in memory and mirrors the transactional
// overlap re-check of the pgx implementation.
type fakeRepository struct {
	bookings map[string]*Booking
	nextID   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bookings: make(map[string]*Booking)}
}

func (r *fakeRepository) activeRanges(facilityID string, date time.Time, excludeID string) []schedule.TimeRange {
	var ranges []schedule.TimeRange
	for _, b := range r.bookings {
		if b.FacilityID != facilityID || !b.Date.Equal(date) {
			continue
		}
		if b.Status == StatusCancelled || b.ID == excludeID {
			continue
		}
		ranges = append(ranges, b.Range())
	}
	return ranges
}

func (r *fakeRepository) Create(ctx context.Context, b *Booking) error {
	if schedule.HasConflict(b.Range(), r.activeRanges(b.FacilityID, b.Date, "")) {
		return &ConflictError{FacilityID: b.FacilityID, Date: b.Date, Range: b.Range()}
	}
	r.nextID++
	b.ID = fmt.Sprintf("booking-%d", r.nextID)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.FacilityID != "" && b.FacilityID != filter.FacilityID {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeRepository) ListByUser(ctx context.Context, userID string) ([]*Booking, error) {
	out, _, err := r.List(ctx, Filter{UserID: userID})
	return out, err
}

func (r *fakeRepository) Update(ctx context.Context, b *Booking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeRepository) UpdateWithConflictCheck(ctx context.Context, b *Booking) error {
	if schedule.HasConflict(b.Range(), r.activeRanges(b.FacilityID, b.Date, b.ID)) {
		return &ConflictError{FacilityID: b.FacilityID, Date: b.Date, Range: b.Range()}
	}
	return r.Update(ctx, b)
}

func (r *fakeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeRepository) ListActiveRanges(ctx context.Context, facilityID string, date time.Time, excludeID string) ([]schedule.TimeRange, error) {
	return r.activeRanges(facilityID, date, excludeID), nil
}

// fakeFacilityService knows a fixed set of facility IDs.
type fakeFacilityService struct {
	ids map[string]bool
}

func newFakeFacilityService(ids ...string) *fakeFacilityService {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &fakeFacilityService{ids: known}
}

func (f *fakeFacilityService) GetByID(ctx context.Context, id string) (*facility.Facility, error) {
	if !f.ids[id] {
		return nil, facility.ErrNotFound
	}
	return &facility.Facility{ID: id, Name: "Room A", Location: "Bldg 1", Capacity: 10}, nil
}

func (f *fakeFacilityService) Create(ctx context.Context, req facility.CreateRequest) (*facility.Facility, error) {
	panic("not used")
}

func (f *fakeFacilityService) List(ctx context.Context) ([]*facility.Facility, error) {
	panic("not used")
}

func (f *fakeFacilityService) Update(ctx context.Context, id string, req facility.UpdateRequest) (*facility.Facility, error) {
	panic("not used")
}

func (f *fakeFacilityService) Delete(ctx context.Context, id string) error {
	panic("not used")
}

func (f *fakeFacilityService) SetPhoto(ctx context.Context, id string, photoID *string) (*facility.Facility, error) {
	panic("not used")
}

func mustRange(t *testing.T, start, end string) schedule.TimeRange {
	t.Helper()
	s, err := schedule.ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := schedule.ParseTimeOfDay(end)
	require.NoError(t, err)
	return schedule.TimeRange{Start: s, End: e}
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	newSvc := func() (Service, *fakeRepository) {
		repo := newFakeRepository()
		return NewService(repo, newFakeFacilityService("fac-1", "fac-2")), repo
	}

	t.Run("defaults to pending", func(t *testing.T) {
		svc, _ := newSvc()
		b, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1",
			UserID:     "user-1",
			Date:       day,
			Range:      mustRange(t, "10:00", "11:00"),
		})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, b.Status)
		assert.NotEmpty(t, b.ID)
	})

	t.Run("rejects overlapping booking", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-1", Date: day,
			Range: mustRange(t, "10:00", "11:00"),
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-2", Date: day,
			Range: mustRange(t, "10:30", "11:30"),
		})
		require.Error(t, err)

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict, "overlap should surface a ConflictError")
		assert.Equal(t, "fac-1", conflict.FacilityID)
		assert.ErrorIs(t, err, ErrTimeConflict)
	})

	t.Run("allows back-to-back booking", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-1", Date: day,
			Range: mustRange(t, "10:00", "11:00"),
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-2", Date: day,
			Range: mustRange(t, "11:00", "12:00"),
		})
		assert.NoError(t, err, "touching endpoints must not conflict")
	})

	t.Run("same range on different facility", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-1", Date: day,
			Range: mustRange(t, "10:00", "11:00"),
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{
			FacilityID: "fac-2", UserID: "user-2", Date: day,
			Range: mustRange(t, "10:00", "11:00"),
		})
		assert.NoError(t, err)
	})

	t.Run("same range on different date", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-1", Date: day,
			Range: mustRange(t, "10:00", "11:00"),
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-2", Date: day.AddDate(0, 0, 1),
			Range: mustRange(t, "10:00", "11:00"),
		})
		assert.NoError(t, err)
	})

	t.Run("cancelled booking frees its slot", func(t *testing.T) {
		svc, _ := newSvc()
		first, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-1", Date: day,
			Range: mustRange(t, "10:00", "11:00"),
		})
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, first.ID, "user-1", false)
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-2", Date: day,
			Range: mustRange(t, "10:00", "11:00"),
		})
		assert.NoError(t, err, "cancelled bookings must not block new ones")
	})

	t.Run("cannot be created cancelled", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-1", Date: day,
			Range:  mustRange(t, "10:00", "11:00"),
			Status: StatusCancelled,
		})
		assert.ErrorIs(t, err, ErrCancelledOnCreate)
	})

	t.Run("explicit confirmed status is kept", func(t *testing.T) {
		svc, _ := newSvc()
		b, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-1", Date: day,
			Range:  mustRange(t, "10:00", "11:00"),
			Status: StatusConfirmed,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, b.Status)
	})

	t.Run("invalid time range", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-1", Date: day,
			Range: mustRange(t, "11:00", "10:00"),
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)

		_, err = svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-1", Date: day,
			Range: mustRange(t, "10:00", "10:00"),
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange, "zero-length range is invalid")
	})

	t.Run("unknown facility", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Create(ctx, CreateRequest{
			FacilityID: "nope", UserID: "user-1", Date: day,
			Range: mustRange(t, "10:00", "11:00"),
		})
		assert.ErrorIs(t, err, ErrFacilityNotFound)
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (Service, *Booking, *Booking) {
		t.Helper()
		repo := newFakeRepository()
		svc := NewService(repo, newFakeFacilityService("fac-1", "fac-2"))

		first, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-1", Date: day,
			Range: mustRange(t, "10:00", "11:00"),
		})
		require.NoError(t, err)

		second, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-2", Date: day,
			Range: mustRange(t, "14:00", "15:00"),
		})
		require.NoError(t, err)

		return svc, first, second
	}

	t.Run("resubmitting own time does not self-conflict", func(t *testing.T) {
		svc, first, _ := setup(t)
		start := first.Start
		end := first.End
		updated, err := svc.Update(ctx, first.ID, UpdateRequest{Start: &start, End: &end}, "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, first.Start, updated.Start)
	})

	t.Run("moving onto another booking conflicts", func(t *testing.T) {
		svc, first, second := setup(t)
		start := second.Start
		end := second.End
		_, err := svc.Update(ctx, first.ID, UpdateRequest{Start: &start, End: &end}, "user-1", false)
		assert.ErrorIs(t, err, ErrTimeConflict)
	})

	t.Run("moving to a free window succeeds", func(t *testing.T) {
		svc, first, _ := setup(t)
		start := schedule.NewTimeOfDay(12, 0)
		end := schedule.NewTimeOfDay(13, 0)
		updated, err := svc.Update(ctx, first.ID, UpdateRequest{Start: &start, End: &end}, "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, start, updated.Start)
		assert.Equal(t, end, updated.End)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		svc, first, _ := setup(t)
		start := schedule.NewTimeOfDay(12, 0)
		_, err := svc.Update(ctx, first.ID, UpdateRequest{Start: &start}, "user-2", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("admin can update any booking", func(t *testing.T) {
		svc, first, _ := setup(t)
		start := schedule.NewTimeOfDay(12, 0)
		end := schedule.NewTimeOfDay(13, 0)
		_, err := svc.Update(ctx, first.ID, UpdateRequest{Start: &start, End: &end}, "admin-1", true)
		assert.NoError(t, err)
	})

	t.Run("owner cannot confirm own booking", func(t *testing.T) {
		svc, first, _ := setup(t)
		status := StatusConfirmed
		_, err := svc.Update(ctx, first.ID, UpdateRequest{Status: &status}, "user-1", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestServiceUpdateStatus(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (Service, *Booking) {
		t.Helper()
		repo := newFakeRepository()
		svc := NewService(repo, newFakeFacilityService("fac-1"))
		b, err := svc.Create(ctx, CreateRequest{
			FacilityID: "fac-1", UserID: "user-1", Date: day,
			Range: mustRange(t, "10:00", "11:00"),
		})
		require.NoError(t, err)
		return svc, b
	}

	t.Run("admin confirms pending", func(t *testing.T) {
		svc, b := setup(t)
		updated, err := svc.UpdateStatus(ctx, b.ID, StatusConfirmed, "admin-1", true)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, updated.Status)
	})

	t.Run("owner cancels own booking", func(t *testing.T) {
		svc, b := setup(t)
		updated, err := svc.Cancel(ctx, b.ID, "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, updated.Status)
	})

	t.Run("owner cannot confirm", func(t *testing.T) {
		svc, b := setup(t)
		_, err := svc.UpdateStatus(ctx, b.ID, StatusConfirmed, "user-1", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("non-owner cannot cancel", func(t *testing.T) {
		svc, b := setup(t)
		_, err := svc.Cancel(ctx, b.ID, "user-2", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		svc, b := setup(t)
		_, err := svc.Cancel(ctx, b.ID, "user-1", false)
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, b.ID, StatusConfirmed, "admin-1", true)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = svc.UpdateStatus(ctx, b.ID, StatusPending, "admin-1", true)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("confirmed cannot revert to pending", func(t *testing.T) {
		svc, b := setup(t)
		_, err := svc.UpdateStatus(ctx, b.ID, StatusConfirmed, "admin-1", true)
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, b.ID, StatusPending, "admin-1", true)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		svc, b := setup(t)
		updated, err := svc.UpdateStatus(ctx, b.ID, StatusPending, "admin-1", true)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, updated.Status)
	})

	t.Run("invalid status value", func(t *testing.T) {
		svc, b := setup(t)
		_, err := svc.UpdateStatus(ctx, b.ID, Status("done"), "admin-1", true)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestServiceAvailability(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	repo := newFakeRepository()
	svc := NewService(repo, newFakeFacilityService("fac-1"))

	_, err := svc.Create(ctx, CreateRequest{
		FacilityID: "fac-1", UserID: "user-1", Date: day,
		Range: mustRange(t, "09:00", "10:00"),
	})
	require.NoError(t, err)

	cancelled, err := svc.Create(ctx, CreateRequest{
		FacilityID: "fac-1", UserID: "user-2", Date: day,
		Range: mustRange(t, "12:00", "13:00"),
	})
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, cancelled.ID, "user-2", false)
	require.NoError(t, err)

	t.Run("booked slots are excluded", func(t *testing.T) {
		avail, err := svc.Availability(ctx, "fac-1", day)
		require.NoError(t, err)

		assert.Equal(t, "fac-1", avail.FacilityID)
		assert.Equal(t, "2026-03-02", avail.Date)
		// 28 slots in the 08:00-22:00 window minus the two covered by 09:00-10:00.
		assert.Len(t, avail.AvailableSlots, 26)
		require.Len(t, avail.BookedSlots, 1, "cancelled booking must not appear")
		assert.Equal(t, mustRange(t, "09:00", "10:00"), avail.BookedSlots[0])

		for _, slot := range avail.AvailableSlots {
			assert.False(t, slot.Overlaps(mustRange(t, "09:00", "10:00")),
				"available slot %v overlaps a booking", slot)
		}
	})

	t.Run("unknown facility", func(t *testing.T) {
		_, err := svc.Availability(ctx, "nope", day)
		assert.ErrorIs(t, err, ErrFacilityNotFound)
	})
}
