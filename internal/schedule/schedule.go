// Package schedule implements the booking-conflict and availability core:
// half-open time ranges, fixed-width slot generation, and overlap detection.
// Everything here is pure; callers supply the existing reservations and the
// persistence layer stays the single source of truth.
package schedule

import "time"

// Default operating window and slot width for facilities.
const (
	DefaultOpen      = TimeOfDay(8 * 60)  // 08:00
	DefaultClose     = TimeOfDay(22 * 60) // 22:00
	DefaultSlotWidth = 30 * time.Minute
)

// TimeRange is a half-open [Start, End) range within one day.
// Invariant: Start < End (enforced upstream by request validation).
type TimeRange struct {
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}

// NewTimeRange builds a TimeRange from parsed times.
func NewTimeRange(start, end TimeOfDay) TimeRange {
	return TimeRange{Start: start, End: end}
}

// IsValid reports whether the range is non-empty.
func (r TimeRange) IsValid() bool {
	return r.Start < r.End
}

// Overlaps reports whether two half-open ranges share any instant.
// Ranges touching only at a boundary (one ends exactly where the other
// starts) do not overlap. This single rule is used by both slot generation
// and conflict checking; mixing interval conventions between the two paths
// would produce adjacent-slot false positives.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// GenerateSlots enumerates consecutive, contiguous slots of exactly width
// starting at windowStart. A trailing window shorter than width is dropped,
// never emitted truncated.
func GenerateSlots(windowStart, windowEnd TimeOfDay, width time.Duration) []TimeRange {
	step := TimeOfDay(width / time.Minute)
	if step <= 0 || windowStart >= windowEnd {
		return nil
	}

	slots := make([]TimeRange, 0, int((windowEnd-windowStart)/step))
	for cur := windowStart; cur+step <= windowEnd; cur += step {
		slots = append(slots, TimeRange{Start: cur, End: cur + step})
	}
	return slots
}

// HasConflict reports whether candidate overlaps at least one existing range.
// The caller must already have filtered existing to the same facility, the
// same date, and non-cancelled status; this check is facility/date-agnostic.
func HasConflict(candidate TimeRange, existing []TimeRange) bool {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return true
		}
	}
	return false
}

// Availability returns the free slots of the default operating window given
// the booked ranges for one facility/day, in ascending start order. An empty
// existing set yields the full slot sequence; a fully booked day yields an
// empty (non-nil) sequence.
func Availability(existing []TimeRange) []TimeRange {
	return AvailabilityWindow(DefaultOpen, DefaultClose, DefaultSlotWidth, existing)
}

// AvailabilityWindow is Availability over an explicit window and slot width.
func AvailabilityWindow(open, close TimeOfDay, width time.Duration, existing []TimeRange) []TimeRange {
	slots := GenerateSlots(open, close, width)

	free := make([]TimeRange, 0, len(slots))
	for _, slot := range slots {
		if !HasConflict(slot, existing) {
			free = append(free, slot)
		}
	}
	return free
}
