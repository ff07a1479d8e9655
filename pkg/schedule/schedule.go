package schedule

import (
	"github.com/trackboard/trackboard/pkg/timetable"
)

// Schedule holds the two authoritative, writable source lists: the weekly
// recurring pattern and the ad-hoc dated entries. Everything else the board
// shows is derived from these per render cycle.
type Schedule struct {
	Recurring []timetable.Event
	AdHoc     []timetable.Event
}

// Projection is the disposable per-cycle view produced from the
// authoritative lists and, optionally, the remote live feed.
type Projection struct {
	// Display is what the board renders: the remote feed alone when one is
	// present, otherwise the materialized personal schedule.
	Display []timetable.Event
	// Personal is always the materialized local schedule. The "current"
	// indicator is anchored to it regardless of which feed is displayed.
	Personal []timetable.Event
}
