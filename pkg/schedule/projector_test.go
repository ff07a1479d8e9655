package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackboard/trackboard/pkg/timetable"
)

func TestProject(t *testing.T) {
	// 2025-01-06 is a Monday.
	now := time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)

	t.Run("materializes matching weekdays across the window", func(t *testing.T) {
		sched := Schedule{
			Recurring: []timetable.Event{
				{ID: "mon", Line: "S1", Weekday: "monday", PlanTime: "07:30"},
				{ID: "wed", Line: "S2", Weekday: "wednesday", PlanTime: "09:00"},
			},
		}

		projection := Project(sched, nil, 7, now)

		require.Len(t, projection.Personal, 2)
		assert.Equal(t, "mon", projection.Personal[0].ID)
		assert.Equal(t, "2025-01-06", projection.Personal[0].Date)
		assert.Equal(t, "wed", projection.Personal[1].ID)
		assert.Equal(t, "2025-01-08", projection.Personal[1].Date)
	})

	t.Run("a seven day window hits each weekday exactly once", func(t *testing.T) {
		sched := Schedule{
			Recurring: []timetable.Event{{ID: "daily", Line: "S1", Weekday: "monday", PlanTime: "07:30"}},
		}

		projection := Project(sched, nil, 7, now)

		require.Len(t, projection.Personal, 1)
		assert.Equal(t, "2025-01-06", projection.Personal[0].Date)
	})

	t.Run("instances keep the pattern identity", func(t *testing.T) {
		sched := Schedule{
			Recurring: []timetable.Event{{ID: "mon", Line: "S1", Weekday: "monday", PlanTime: "07:30"}},
		}

		projection := Project(sched, nil, 14, now)

		require.Len(t, projection.Personal, 2)
		assert.Equal(t, "mon", projection.Personal[0].ID)
		assert.Equal(t, "mon", projection.Personal[1].ID)
		assert.Equal(t, "2025-01-13", projection.Personal[1].Date)
		for _, instance := range projection.Personal {
			assert.True(t, instance.Recurring)
			assert.Equal(t, timetable.SourceLocal, instance.Source)
		}
	})

	t.Run("ad-hoc entries merge unchanged", func(t *testing.T) {
		sched := Schedule{
			Recurring: []timetable.Event{{ID: "mon", Line: "S1", Weekday: "monday", PlanTime: "07:30"}},
			AdHoc:     []timetable.Event{{ID: "trip", Line: "ICE 100", Date: "2025-01-09", PlanTime: "12:00"}},
		}

		projection := Project(sched, nil, 7, now)

		require.Len(t, projection.Personal, 2)
		assert.Equal(t, "trip", projection.Personal[1].ID)
		assert.Equal(t, "2025-01-09", projection.Personal[1].Date)
		assert.Equal(t, timetable.SourceLocal, projection.Personal[1].Source)
	})

	t.Run("remote feed takes display precedence", func(t *testing.T) {
		sched := Schedule{
			Recurring: []timetable.Event{{ID: "mon", Line: "S1", Weekday: "monday", PlanTime: "07:30"}},
		}
		remote := []timetable.Event{{ID: "r1", Line: "RE 5", PlanTime: "08:15", Source: timetable.SourceRemote}}

		projection := Project(sched, remote, 7, now)

		require.Len(t, projection.Display, 1)
		assert.Equal(t, "r1", projection.Display[0].ID)
		require.Len(t, projection.Personal, 1)
		assert.Equal(t, "mon", projection.Personal[0].ID)
	})

	t.Run("empty remote feed falls back to the personal projection", func(t *testing.T) {
		sched := Schedule{
			Recurring: []timetable.Event{{ID: "mon", Line: "S1", Weekday: "monday", PlanTime: "07:30"}},
		}

		projection := Project(sched, []timetable.Event{}, 7, now)

		assert.Equal(t, projection.Personal, projection.Display)
	})
}
