package schedule

import (
	"time"

	"github.com/trackboard/trackboard/pkg/timetable"
)

// Project expands the weekly recurring pattern across windowDays consecutive
// calendar days starting today, merges the ad-hoc entries unchanged, and
// applies source precedence against the remote feed.
//
// A pattern entry keeps its identity on every materialized day: the pattern
// is one identity, instantiated per day for computation. Projection is
// permissive; entries without a line are dropped at persistence, not here.
func Project(sched Schedule, remote []timetable.Event, windowDays int, now time.Time) Projection {
	personal := make([]timetable.Event, 0, len(sched.Recurring)*windowDays+len(sched.AdHoc))

	for i := 0; i < windowDays; i++ {
		day := now.AddDate(0, 0, i)
		weekday := timetable.WeekdayName(int(day.Weekday()))
		date := day.Format("2006-01-02")

		for _, entry := range sched.Recurring {
			if entry.Weekday != weekday {
				continue
			}
			instance := entry
			instance.Date = date
			instance.Recurring = true
			instance.Source = timetable.SourceLocal
			personal = append(personal, instance)
		}
	}

	for _, entry := range sched.AdHoc {
		entry.Source = timetable.SourceLocal
		personal = append(personal, entry)
	}

	display := personal
	if len(remote) > 0 {
		display = remote
	}

	return Projection{Display: display, Personal: personal}
}
