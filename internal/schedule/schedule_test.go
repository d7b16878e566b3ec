package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end string) TimeRange {
	t.Helper()
	s, err := ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := ParseTimeOfDay(end)
	require.NoError(t, err)
	return NewTimeRange(s, e)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    TimeRange
		b    TimeRange
		want bool
	}{
		{
			name: "identical ranges overlap",
			a:    mustRange(t, "09:00", "10:00"),
			b:    mustRange(t, "09:00", "10:00"),
			want: true,
		},
		{
			name: "adjacent ranges do not overlap",
			a:    mustRange(t, "09:00", "09:30"),
			b:    mustRange(t, "09:30", "10:00"),
			want: false,
		},
		{
			name: "contained range overlaps",
			a:    mustRange(t, "09:00", "10:00"),
			b:    mustRange(t, "09:15", "09:45"),
			want: true,
		},
		{
			name: "partial overlap at tail",
			a:    mustRange(t, "10:00", "11:00"),
			b:    mustRange(t, "10:30", "11:30"),
			want: true,
		},
		{
			name: "boundary touch at start",
			a:    mustRange(t, "10:00", "11:00"),
			b:    mustRange(t, "11:00", "12:00"),
			want: false,
		},
		{
			name: "disjoint ranges",
			a:    mustRange(t, "08:00", "08:30"),
			b:    mustRange(t, "12:00", "13:00"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Overlap is symmetric
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestGenerateSlots_DefaultWindow(t *testing.T) {
	slots := GenerateSlots(DefaultOpen, DefaultClose, DefaultSlotWidth)

	require.Len(t, slots, 28)
	assert.Equal(t, mustRange(t, "08:00", "08:30"), slots[0])
	assert.Equal(t, mustRange(t, "21:30", "22:00"), slots[len(slots)-1])

	for i := 1; i < len(slots); i++ {
		// Contiguous, non-overlapping, strictly ascending
		assert.Equal(t, slots[i-1].End, slots[i].Start)
		assert.False(t, slots[i-1].Overlaps(slots[i]))
		assert.Less(t, slots[i-1].Start, slots[i].Start)
	}
}

func TestGenerateSlots_DropsTrailingPartialWindow(t *testing.T) {
	// 08:00-09:45 with 30m slots: the 09:30-10:00 slot would overrun closing
	slots := GenerateSlots(NewTimeOfDay(8, 0), NewTimeOfDay(9, 45), 30*time.Minute)

	require.Len(t, slots, 3)
	assert.Equal(t, mustRange(t, "09:00", "09:30"), slots[2])
}

func TestGenerateSlots_DegenerateInputs(t *testing.T) {
	assert.Empty(t, GenerateSlots(NewTimeOfDay(10, 0), NewTimeOfDay(10, 0), 30*time.Minute))
	assert.Empty(t, GenerateSlots(NewTimeOfDay(12, 0), NewTimeOfDay(10, 0), 30*time.Minute))
	assert.Empty(t, GenerateSlots(NewTimeOfDay(8, 0), NewTimeOfDay(10, 0), 0))
}

func TestHasConflict(t *testing.T) {
	existing := []TimeRange{
		mustRange(t, "09:00", "10:00"),
		mustRange(t, "14:00", "15:30"),
	}

	assert.True(t, HasConflict(mustRange(t, "09:30", "10:30"), existing))
	assert.True(t, HasConflict(mustRange(t, "13:00", "16:00"), existing))
	assert.False(t, HasConflict(mustRange(t, "10:00", "11:00"), existing))
	assert.False(t, HasConflict(mustRange(t, "08:00", "09:00"), existing))
	assert.False(t, HasConflict(mustRange(t, "09:00", "10:00"), nil))
}

func TestAvailability(t *testing.T) {
	t.Run("empty existing set yields all 28 slots", func(t *testing.T) {
		free := Availability(nil)
		require.Len(t, free, 28)
		assert.Equal(t, mustRange(t, "08:00", "08:30"), free[0])
		assert.Equal(t, mustRange(t, "21:30", "22:00"), free[27])
	})

	t.Run("one booking excludes exactly its covering slots", func(t *testing.T) {
		free := Availability([]TimeRange{mustRange(t, "09:00", "10:00")})

		require.Len(t, free, 26)
		for _, slot := range free {
			assert.NotEqual(t, mustRange(t, "09:00", "09:30"), slot)
			assert.NotEqual(t, mustRange(t, "09:30", "10:00"), slot)
		}
		// Neighbours of the booked window survive
		assert.Contains(t, free, mustRange(t, "08:30", "09:00"))
		assert.Contains(t, free, mustRange(t, "10:00", "10:30"))
	})

	t.Run("booking straddling slot boundaries excludes both slots", func(t *testing.T) {
		free := Availability([]TimeRange{mustRange(t, "09:15", "09:45")})

		require.Len(t, free, 26)
		assert.NotContains(t, free, mustRange(t, "09:00", "09:30"))
		assert.NotContains(t, free, mustRange(t, "09:30", "10:00"))
	})

	t.Run("fully booked day yields empty non-nil sequence", func(t *testing.T) {
		free := Availability([]TimeRange{mustRange(t, "08:00", "22:00")})
		require.NotNil(t, free)
		assert.Empty(t, free)
	})

	t.Run("output preserves ascending start order", func(t *testing.T) {
		free := Availability([]TimeRange{
			mustRange(t, "18:00", "19:00"),
			mustRange(t, "08:30", "09:00"),
		})
		for i := 1; i < len(free); i++ {
			assert.Less(t, free[i-1].Start, free[i].Start)
		}
	})
}
