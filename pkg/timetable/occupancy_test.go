package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupancyEnd(t *testing.T) {
	now := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

	t.Run("end is always after effective start", func(t *testing.T) {
		e := Event{PlanTime: "10:00", DurationMinutes: 60, Date: "2025-01-06"}

		start, ok := EffectiveStart(e, now)
		require.True(t, ok)
		end, ok := OccupancyEnd(e, now)
		require.True(t, ok)
		assert.True(t, end.After(start))
	})

	t.Run("canceled events have no window", func(t *testing.T) {
		e := Event{PlanTime: "10:00", DurationMinutes: 60, Canceled: true}

		_, ok := OccupancyEnd(e, now)
		assert.False(t, ok)
	})

	t.Run("zero duration means no window", func(t *testing.T) {
		e := Event{PlanTime: "10:00", DurationMinutes: 0}

		_, ok := OccupancyEnd(e, now)
		assert.False(t, ok)
	})

	t.Run("no plan time means no window", func(t *testing.T) {
		e := Event{DurationMinutes: 60}

		_, ok := OccupancyEnd(e, now)
		assert.False(t, ok)
	})

	t.Run("actual time shifts the window", func(t *testing.T) {
		e := Event{PlanTime: "10:00", ActualTime: "10:30", DurationMinutes: 60, Date: "2025-01-06"}

		end, ok := OccupancyEnd(e, now)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, time.January, 6, 11, 30, 0, 0, time.UTC), end)
	})
}

func TestIsOccupying(t *testing.T) {
	now := time.Date(2025, time.January, 6, 10, 15, 0, 0, time.UTC)

	t.Run("confirmed actual inside window occupies", func(t *testing.T) {
		e := Event{PlanTime: "10:00", ActualTime: "10:00", DurationMinutes: 60, Date: "2025-01-06"}

		assert.True(t, IsOccupying(e, now))
	})

	t.Run("plan-only events never occupy", func(t *testing.T) {
		e := Event{PlanTime: "10:00", DurationMinutes: 60, Date: "2025-01-06"}

		assert.False(t, IsOccupying(e, now))
	})

	t.Run("window end is exclusive", func(t *testing.T) {
		e := Event{PlanTime: "09:15", ActualTime: "09:15", DurationMinutes: 60, Date: "2025-01-06"}

		assert.False(t, IsOccupying(e, now))
	})

	t.Run("canceled events never occupy", func(t *testing.T) {
		e := Event{PlanTime: "10:00", ActualTime: "10:00", DurationMinutes: 60, Date: "2025-01-06", Canceled: true}

		assert.False(t, IsOccupying(e, now))
	})
}

func TestDelayMinutes(t *testing.T) {
	now := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

	t.Run("computes confirmed delay", func(t *testing.T) {
		e := Event{PlanTime: "10:00", ActualTime: "10:12", Date: "2025-01-06"}

		assert.Equal(t, 12, DelayMinutes(e, now))
	})

	t.Run("early departure is negative", func(t *testing.T) {
		e := Event{PlanTime: "10:00", ActualTime: "09:55", Date: "2025-01-06"}

		assert.Equal(t, -5, DelayMinutes(e, now))
	})

	t.Run("zero when actual is absent", func(t *testing.T) {
		e := Event{PlanTime: "10:00", Date: "2025-01-06"}

		assert.Equal(t, 0, DelayMinutes(e, now))
	})

	t.Run("zero when a time does not resolve", func(t *testing.T) {
		e := Event{PlanTime: "xx:yy", ActualTime: "10:12", Date: "2025-01-06"}

		assert.Equal(t, 0, DelayMinutes(e, now))
	})
}

func TestIsFuture(t *testing.T) {
	now := time.Date(2025, time.January, 6, 10, 15, 0, 0, time.UTC)

	t.Run("upcoming plan is future", func(t *testing.T) {
		e := Event{PlanTime: "11:00", Date: "2025-01-06"}

		assert.True(t, IsFuture(e, now))
	})

	t.Run("currently occupying stays on the board", func(t *testing.T) {
		e := Event{PlanTime: "10:00", ActualTime: "10:00", DurationMinutes: 60, Date: "2025-01-06"}

		assert.True(t, IsFuture(e, now))
	})

	t.Run("departed without occupancy is past", func(t *testing.T) {
		e := Event{PlanTime: "10:00", Date: "2025-01-06"}

		assert.False(t, IsFuture(e, now))
	})

	t.Run("canceled counts only until its nominal departure", func(t *testing.T) {
		upcoming := Event{PlanTime: "11:00", Date: "2025-01-06", Canceled: true, DurationMinutes: 60}
		departed := Event{PlanTime: "10:00", Date: "2025-01-06", Canceled: true, DurationMinutes: 60}

		assert.True(t, IsFuture(upcoming, now))
		assert.False(t, IsFuture(departed, now))
	})

	t.Run("notes without time are never future", func(t *testing.T) {
		e := Event{Destination: "remember the dentist"}

		assert.False(t, IsFuture(e, now))
	})
}

func TestNominalWindow(t *testing.T) {
	now := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

	t.Run("ignores actual time and canceled flag", func(t *testing.T) {
		e := Event{PlanTime: "10:00", ActualTime: "10:30", DurationMinutes: 30, Date: "2025-01-06", Canceled: true}

		start, end, ok := NominalWindow(e, now)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, time.January, 6, 10, 30, 0, 0, time.UTC), end)
	})
}

func TestNormalizeStops(t *testing.T) {
	t.Run("keeps canonical slices", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, NormalizeStops([]string{"a", "b"}))
	})

	t.Run("splits newline-joined strings", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, NormalizeStops("a\nb"))
	})

	t.Run("handles decoded JSON arrays", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, NormalizeStops([]any{"a", "b"}))
	})

	t.Run("drops blank entries", func(t *testing.T) {
		assert.Equal(t, []string{"a"}, NormalizeStops("a\n\n  \n"))
	})

	t.Run("nil for empty input", func(t *testing.T) {
		assert.Nil(t, NormalizeStops(nil))
		assert.Nil(t, NormalizeStops(""))
	})
}
