package board

import (
	"sort"
	"time"

	"github.com/trackboard/trackboard/pkg/timetable"
)

// ConflictKind classifies how two occupancy windows intersect.
type ConflictKind string

const (
	// ConflictContained means the other event lies fully inside the
	// primary's window.
	ConflictContained ConflictKind = "contained"
	// ConflictNested means the windows partially overlap on one side.
	ConflictNested ConflictKind = "nested"
)

// ConflictPair is one detected intersection between two active events.
// Derived and transient: recomputed every cycle.
type ConflictPair struct {
	Primary timetable.Event
	Other   timetable.Event
	Kind    ConflictKind
}

// FindConflicts tests every unordered pair of active (non-canceled,
// windowed) events for interval intersection. Each intersecting pair is
// reported once, in discovery order: the earlier-starting event of the pair
// is the primary. No deduplication across the symmetric pair is needed
// because each pair is enumerated once.
func FindConflicts(events []timetable.Event, now time.Time) []ConflictPair {
	active := activeWindows(events, now)

	var pairs []ConflictPair
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			if !a.start.Before(b.end) || !a.end.After(b.start) {
				continue
			}
			kind := ConflictNested
			if !b.start.Before(a.start) && !b.end.After(a.end) {
				kind = ConflictContained
			}
			pairs = append(pairs, ConflictPair{Primary: a.event, Other: b.event, Kind: kind})
		}
	}
	return pairs
}

// ReplacementServices returns the active events whose occupancy window
// intersects any canceled event's nominal (never-occupying, plan-anchored)
// window. Structurally the same intersection test as FindConflicts, applied
// to the active × canceled input sets.
func ReplacementServices(active []timetable.Event, canceled []timetable.Event, now time.Time) []timetable.Event {
	var result []timetable.Event
	for _, e := range active {
		if e.Canceled {
			continue
		}
		end, ok := timetable.OccupancyEnd(e, now)
		if !ok {
			continue
		}
		start, _ := timetable.EffectiveStart(e, now)

		for _, c := range canceled {
			nominalStart, nominalEnd, ok := timetable.NominalWindow(c, now)
			if !ok {
				continue
			}
			if start.Before(nominalEnd) && end.After(nominalStart) {
				result = append(result, e)
				break
			}
		}
	}
	return result
}

type activeWindow struct {
	event timetable.Event
	start time.Time
	end   time.Time
}

// activeWindows filters to non-canceled events with a resolvable window,
// ordered ascending by effective start (stable on ties) so conflict
// enumeration order is fixed.
func activeWindows(events []timetable.Event, now time.Time) []activeWindow {
	windows := make([]activeWindow, 0, len(events))
	for _, e := range events {
		if e.Canceled {
			continue
		}
		end, ok := timetable.OccupancyEnd(e, now)
		if !ok {
			continue
		}
		start, _ := timetable.EffectiveStart(e, now)
		windows = append(windows, activeWindow{event: e, start: start, end: end})
	}
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].start.Before(windows[j].start)
	})
	return windows
}
