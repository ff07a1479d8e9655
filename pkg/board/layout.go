package board

import (
	"sort"
	"time"

	"github.com/trackboard/trackboard/pkg/timetable"
)

// MaxLane is the highest stacking lane on the timeline. Events that would
// overflow still occupy the last lane, visually stacked rather than hidden.
const MaxLane = 3

type window struct {
	id    string
	start time.Time
	end   time.Time
	lane  int
}

// AssignLanes assigns non-colliding stacking lanes to events for the
// timeline display. Only non-canceled events with a resolvable occupancy
// window participate. Deterministic: events are processed ascending by
// effective start, ties broken by input order.
func AssignLanes(events []timetable.Event, now time.Time) map[string]int {
	windows := make([]window, 0, len(events))
	for _, e := range events {
		end, ok := timetable.OccupancyEnd(e, now)
		if !ok {
			continue
		}
		start, _ := timetable.EffectiveStart(e, now)
		windows = append(windows, window{id: e.ID, start: start, end: end})
	}
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].start.Before(windows[j].start)
	})

	lanes := make(map[string]int, len(windows))
	for i := range windows {
		lane := 0
		for j := 0; j < i; j++ {
			if windows[i].start.Before(windows[j].end) && windows[i].end.After(windows[j].start) {
				if windows[j].lane >= lane {
					lane = windows[j].lane + 1
				}
			}
		}
		if lane > MaxLane {
			lane = MaxLane
		}
		windows[i].lane = lane
		lanes[windows[i].id] = lane
	}
	return lanes
}
