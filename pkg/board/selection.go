package board

import (
	"sort"
	"time"

	"github.com/trackboard/trackboard/pkg/timetable"
)

// SelectCurrent picks the single "current" event from the personal schedule.
// It is always computed against the personal set, never the remote feed:
// only the personal plan means anything as "what I'm doing".
//
// Among events currently occupying, the latest start wins: a later-booked
// event supersedes an earlier one still nominally running. Otherwise the
// earliest future event is chosen.
func SelectCurrent(personal []timetable.Event, now time.Time) *timetable.Event {
	future := futureSorted(personal, now)
	if len(future) == 0 {
		return nil
	}

	var current *timetable.Event
	for i := range future {
		if !timetable.IsOccupying(future[i], now) {
			continue
		}
		if current == nil {
			current = &future[i]
			continue
		}
		currentStart, _ := timetable.EffectiveStart(*current, now)
		candidateStart, _ := timetable.EffectiveStart(future[i], now)
		if candidateStart.After(currentStart) {
			current = &future[i]
		}
	}
	if current == nil {
		current = &future[0]
	}

	selected := *current
	return &selected
}

// futureSorted filters to events with a resolvable departure that are still
// future (or occupying), sorted ascending by effective start. The sort is
// stable: ties keep input order.
func futureSorted(events []timetable.Event, now time.Time) []timetable.Event {
	result := make([]timetable.Event, 0, len(events))
	for _, e := range events {
		if !e.HasPlan() {
			continue
		}
		if _, ok := timetable.EffectiveStart(e, now); !ok {
			continue
		}
		if timetable.IsFuture(e, now) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, _ := timetable.EffectiveStart(result[i], now)
		b, _ := timetable.EffectiveStart(result[j], now)
		return a.Before(b)
	})
	return result
}
