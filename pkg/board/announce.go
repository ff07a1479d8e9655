package board

import (
	"sort"
	"strings"
	"time"

	"github.com/trackboard/trackboard/pkg/timetable"
)

// BucketKind is the attention category an announcement belongs to.
type BucketKind string

const (
	BucketNote               BucketKind = "note"
	BucketCancelled          BucketKind = "cancelled"
	BucketDelayed            BucketKind = "delayed"
	BucketAdditionalService  BucketKind = "additionalService"
	BucketReplacementService BucketKind = "replacementService"
	BucketConflict           BucketKind = "conflict"
)

// AdditionalServiceMarker is the reserved destination prefix that tags an
// extra service. Stripped before display.
const AdditionalServiceMarker = "[ZF]"

// PageSize is the fixed number of announcements shown per rotation page.
const PageSize = 3

// Announcement is one display-ready attention item: a category tag on a
// shallow copy of an event, plus the paired other event for conflicts.
type Announcement struct {
	Kind         BucketKind
	Event        timetable.Event
	ConflictWith *timetable.Event
	ConflictKind ConflictKind
}

// Announcements is the aggregated, ordered bucket list for one cycle.
type Announcements struct {
	Items      []Announcement
	TotalPages int
}

// Aggregate buckets the displayed events into attention categories. The
// rules are independent: one event may land in several buckets.
//
// Notes (no plan time) persist regardless of day. Cancellations, delays,
// additional services and replacement services are restricted to future
// events dated today. Conflicts cover all future active events.
func Aggregate(display []timetable.Event, now time.Time) Announcements {
	var items []Announcement

	for _, e := range display {
		if !e.HasPlan() {
			items = append(items, Announcement{Kind: BucketNote, Event: e})
		}
	}

	today := now.Format("2006-01-02")
	var futureToday []timetable.Event
	var allFutureActive []timetable.Event
	for _, e := range display {
		if !timetable.IsFuture(e, now) {
			continue
		}
		if !e.Canceled {
			allFutureActive = append(allFutureActive, e)
		}
		if strings.SplitN(e.Date, "T", 2)[0] == today {
			futureToday = append(futureToday, e)
		}
	}

	var canceledToday []timetable.Event
	for _, e := range futureToday {
		if e.Canceled {
			canceledToday = append(canceledToday, e)
			items = append(items, Announcement{Kind: BucketCancelled, Event: e})
		}
	}

	for _, e := range futureToday {
		if e.Canceled || e.ActualTime == "" || e.ActualTime == e.PlanTime {
			continue
		}
		if timetable.DelayMinutes(e, now) > 0 {
			items = append(items, Announcement{Kind: BucketDelayed, Event: e})
		}
	}

	for _, e := range futureToday {
		if e.Canceled {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(e.Destination), AdditionalServiceMarker) {
			stripped := e
			stripped.Destination = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(e.Destination), AdditionalServiceMarker))
			items = append(items, Announcement{Kind: BucketAdditionalService, Event: stripped})
		}
	}

	for _, e := range ReplacementServices(futureToday, canceledToday, now) {
		items = append(items, Announcement{Kind: BucketReplacementService, Event: e})
	}

	for _, pair := range FindConflicts(allFutureActive, now) {
		other := pair.Other
		items = append(items, Announcement{
			Kind:         BucketConflict,
			Event:        pair.Primary,
			ConflictWith: &other,
			ConflictKind: pair.Kind,
		})
	}

	sortAnnouncements(items, now)

	return Announcements{
		Items:      items,
		TotalPages: (len(items) + PageSize - 1) / PageSize,
	}
}

// sortAnnouncements orders time-less buckets first (in discovery order) and
// the rest ascending by effective start.
func sortAnnouncements(items []Announcement, now time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		iHasTime := items[i].Event.HasPlan()
		jHasTime := items[j].Event.HasPlan()
		if iHasTime != jHasTime {
			return !iHasTime
		}
		if !iHasTime {
			return false
		}
		a, _ := timetable.EffectiveStart(items[i].Event, now)
		b, _ := timetable.EffectiveStart(items[j].Event, now)
		return a.Before(b)
	})
}

// Page returns the slice for the given page index, wrapping the index
// modulo TotalPages. Zero announcements yield an empty page and index 0;
// callers must not schedule a rotation in that case.
func (a Announcements) Page(current int) ([]Announcement, int) {
	if a.TotalPages == 0 {
		return nil, 0
	}
	current = ((current % a.TotalPages) + a.TotalPages) % a.TotalPages
	start := current * PageSize
	end := start + PageSize
	if end > len(a.Items) {
		end = len(a.Items)
	}
	return a.Items[start:end], current
}
