package timetable

import (
	"math"
	"time"
)

// EffectiveStart resolves the instant the event effectively departs: the
// confirmed actual time when present, otherwise the plan.
func EffectiveStart(e Event, now time.Time) (time.Time, bool) {
	clock := e.DepartureClock()
	if clock == "" {
		return time.Time{}, false
	}
	return ResolveClock(clock, now, e.Date)
}

// OccupancyEnd returns the instant the event stops occupying the board.
// Canceled events, events without a resolvable start, and events without a
// positive duration have no window.
func OccupancyEnd(e Event, now time.Time) (time.Time, bool) {
	if e.Canceled {
		return time.Time{}, false
	}
	start, ok := EffectiveStart(e, now)
	if !ok || e.DurationMinutes <= 0 {
		return time.Time{}, false
	}
	return start.Add(time.Duration(e.DurationMinutes) * time.Minute), true
}

// IsOccupying reports whether the event is actively happening at now.
// Only a confirmed actual departure promotes an event to the occupying
// state: a delayed-but-unconfirmed event must not claim "currently
// happening".
func IsOccupying(e Event, now time.Time) bool {
	if e.ActualTime == "" {
		return false
	}
	end, ok := OccupancyEnd(e, now)
	if !ok {
		return false
	}
	start, ok := ResolveClock(e.ActualTime, now, e.Date)
	if !ok {
		return false
	}
	return !start.After(now) && end.After(now)
}

// DelayMinutes is the confirmed delay against plan, in whole minutes.
// Zero when either time is absent or unresolvable.
func DelayMinutes(e Event, now time.Time) int {
	if e.ActualTime == "" || e.PlanTime == "" {
		return 0
	}
	plan, ok := ResolveClock(e.PlanTime, now, e.Date)
	if !ok {
		return 0
	}
	actual, ok := ResolveClock(e.ActualTime, now, e.Date)
	if !ok {
		return 0
	}
	return int(math.Round(actual.Sub(plan).Minutes()))
}

// IsFuture reports whether the event still deserves a place on the board:
// it has not departed yet, or it is currently occupying. Canceled events
// count only until their nominal departure passes.
func IsFuture(e Event, now time.Time) bool {
	start, ok := EffectiveStart(e, now)
	if !ok {
		return false
	}
	if e.Canceled {
		return start.After(now)
	}
	if IsOccupying(e, now) {
		return true
	}
	return start.After(now)
}

// NominalWindow is the plan-anchored window an event would have occupied,
// ignoring the actual time and the canceled flag. Replacement-service
// detection intersects active windows against canceled events' nominal
// windows.
func NominalWindow(e Event, now time.Time) (start, end time.Time, ok bool) {
	start, ok = ResolveClock(e.PlanTime, now, e.Date)
	if !ok || e.DurationMinutes <= 0 {
		return time.Time{}, time.Time{}, false
	}
	return start, start.Add(time.Duration(e.DurationMinutes) * time.Minute), true
}
