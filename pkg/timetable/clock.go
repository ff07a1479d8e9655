package timetable

import (
	"strconv"
	"strings"
	"time"
)

// rolloverThreshold is how far behind "now" a resolved date-less clock time
// may fall before it is interpreted as tomorrow. Schedules that wrap past
// midnight relative to now stay in the future this way.
const rolloverThreshold = 12 * time.Hour

// ResolveClock turns an "HH:MM" string plus an anchor instant into an
// absolute instant, seconds zeroed. A non-empty date ("2006-01-02") pins the
// calendar day and is never shifted. Without a date the anchor's day is used,
// rolled forward one day when the result would be more than 12 hours behind
// the anchor. Malformed input yields ok=false, never an error.
func ResolveClock(clock string, now time.Time, date string) (time.Time, bool) {
	hour, minute, ok := splitClock(clock)
	if !ok {
		return time.Time{}, false
	}

	if date != "" {
		day, err := time.ParseInLocation("2006-01-02", strings.SplitN(date, "T", 2)[0], now.Location())
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()), true
	}

	resolved := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.Sub(resolved) > rolloverThreshold {
		resolved = resolved.AddDate(0, 0, 1)
	}
	return resolved, true
}

func splitClock(clock string) (hour, minute int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
