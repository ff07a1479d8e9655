package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackboard/trackboard/pkg/timetable"
)

func TestFindConflicts(t *testing.T) {
	now := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

	event := func(id, plan string, minutes int) timetable.Event {
		return timetable.Event{ID: id, Line: id, PlanTime: plan, DurationMinutes: minutes, Date: "2025-01-06"}
	}

	t.Run("disjoint windows do not conflict", func(t *testing.T) {
		pairs := FindConflicts([]timetable.Event{
			event("a", "10:00", 30),
			event("b", "10:30", 30),
		}, now)

		assert.Empty(t, pairs)
	})

	t.Run("fully contained window is classified contained", func(t *testing.T) {
		pairs := FindConflicts([]timetable.Event{
			event("a", "10:00", 120),
			event("b", "10:30", 30),
		}, now)

		require.Len(t, pairs, 1)
		assert.Equal(t, "a", pairs[0].Primary.ID)
		assert.Equal(t, "b", pairs[0].Other.ID)
		assert.Equal(t, ConflictContained, pairs[0].Kind)
	})

	t.Run("partial overlap is classified nested", func(t *testing.T) {
		pairs := FindConflicts([]timetable.Event{
			event("a", "10:00", 60),
			event("b", "10:30", 60),
		}, now)

		require.Len(t, pairs, 1)
		assert.Equal(t, "a", pairs[0].Primary.ID)
		assert.Equal(t, ConflictNested, pairs[0].Kind)
	})

	t.Run("delay shifts the window into a conflict", func(t *testing.T) {
		a := event("a", "10:00", 60)
		b := event("b", "10:30", 15)
		b.ActualTime = "10:30"

		pairs := FindConflicts([]timetable.Event{b, a}, now)

		require.Len(t, pairs, 1)
		assert.Equal(t, "a", pairs[0].Primary.ID)
		assert.Equal(t, "b", pairs[0].Other.ID)
		assert.Equal(t, ConflictContained, pairs[0].Kind)
	})

	t.Run("canceled events never conflict", func(t *testing.T) {
		a := event("a", "10:00", 120)
		b := event("b", "10:30", 30)
		b.Canceled = true

		assert.Empty(t, FindConflicts([]timetable.Event{a, b}, now))
	})

	t.Run("the earlier start is always the primary", func(t *testing.T) {
		pairs := FindConflicts([]timetable.Event{
			event("late", "10:30", 60),
			event("early", "10:00", 60),
		}, now)

		require.Len(t, pairs, 1)
		assert.Equal(t, "early", pairs[0].Primary.ID)
	})

	t.Run("three-way overlap reports each pair once", func(t *testing.T) {
		pairs := FindConflicts([]timetable.Event{
			event("a", "10:00", 90),
			event("b", "10:15", 90),
			event("c", "10:30", 90),
		}, now)

		assert.Len(t, pairs, 3)
	})
}

func TestReplacementServices(t *testing.T) {
	now := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

	t.Run("active event overlapping a canceled plan is a replacement", func(t *testing.T) {
		canceled := timetable.Event{ID: "gone", Line: "S1", PlanTime: "10:00",
			DurationMinutes: 60, Date: "2025-01-06", Canceled: true}
		replacement := timetable.Event{ID: "bus", Line: "SEV 1", PlanTime: "10:15",
			DurationMinutes: 45, Date: "2025-01-06"}

		result := ReplacementServices([]timetable.Event{replacement}, []timetable.Event{canceled}, now)

		require.Len(t, result, 1)
		assert.Equal(t, "bus", result[0].ID)
	})

	t.Run("the canceled nominal window ignores its actual time", func(t *testing.T) {
		canceled := timetable.Event{ID: "gone", Line: "S1", PlanTime: "10:00", ActualTime: "13:00",
			DurationMinutes: 60, Date: "2025-01-06", Canceled: true}
		replacement := timetable.Event{ID: "bus", Line: "SEV 1", PlanTime: "10:15",
			DurationMinutes: 45, Date: "2025-01-06"}

		result := ReplacementServices([]timetable.Event{replacement}, []timetable.Event{canceled}, now)

		assert.Len(t, result, 1)
	})

	t.Run("no overlap means no replacement", func(t *testing.T) {
		canceled := timetable.Event{ID: "gone", Line: "S1", PlanTime: "10:00",
			DurationMinutes: 60, Date: "2025-01-06", Canceled: true}
		unrelated := timetable.Event{ID: "other", Line: "S2", PlanTime: "12:00",
			DurationMinutes: 30, Date: "2025-01-06"}

		assert.Empty(t, ReplacementServices([]timetable.Event{unrelated}, []timetable.Event{canceled}, now))
	})
}
