package timetable

import (
	"strings"

	"github.com/google/uuid"
)

// Source identifies which feed an event came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Event is one scheduled occupation of the board: a "train" with a label,
// destination, timing and an optional duration. Exactly one of Date/Weekday
// determines the calendar day used for time resolution; a materialized
// recurring instance always carries a concrete Date.
type Event struct {
	// ID is assigned once at ingestion and preserved through every
	// transformation. Never reused.
	ID          string
	Line        string
	Destination string
	// PlanTime is the scheduled "HH:MM" departure. Empty means the event is
	// a note without a time: it never gets an occupancy window and never
	// participates in overlap or conflict computation.
	PlanTime string
	// ActualTime is the confirmed "HH:MM" departure. Empty means "use plan".
	ActualTime      string
	DurationMinutes int
	// Date is an explicit calendar day, "2006-01-02". Empty means the day is
	// derived from Weekday recurrence.
	Date string
	// Weekday is a lowercase English day name ("monday".."sunday"), used
	// only when Date is empty.
	Weekday   string
	Canceled  bool
	Source    Source
	Recurring bool
	Stops     []string
}

// HasPlan reports whether the event carries a scheduled time at all.
func (e Event) HasPlan() bool {
	return strings.TrimSpace(e.PlanTime) != ""
}

// DepartureClock returns the clock string used for resolution: the confirmed
// actual time when present, otherwise the plan.
func (e Event) DepartureClock() string {
	if e.ActualTime != "" {
		return e.ActualTime
	}
	return e.PlanTime
}

// EnsureID assigns a fresh identity if the event does not carry one yet.
func (e *Event) EnsureID() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
}

// NormalizeStops turns the historical shape-shifting stops field (an array of
// strings or one newline-joined string) into the canonical ordered slice.
// Blank entries are dropped.
func NormalizeStops(value any) []string {
	var raw []string
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		raw = v
	case string:
		raw = strings.Split(v, "\n")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	default:
		return nil
	}

	stops := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			stops = append(stops, s)
		}
	}
	if len(stops) == 0 {
		return nil
	}
	return stops
}

// WeekdayName returns the lowercase name used by the recurring pattern for
// the given day.
func WeekdayName(d int) string {
	names := []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	if d < 0 || d >= len(names) {
		return ""
	}
	return names[d]
}
