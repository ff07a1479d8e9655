package board

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/trackboard/trackboard/internal/utils"
	"github.com/trackboard/trackboard/pkg/schedule"
	"github.com/trackboard/trackboard/pkg/timetable"
)

// FeedSource supplies the most recent remote live feed, or nil when no feed
// is available. Implementations must degrade to nil on failure rather than
// error into the board.
type FeedSource interface {
	Current() []timetable.Event
}

// Snapshot is the full set of derived decisions the presentation layer
// consumes verbatim for one render cycle.
type Snapshot struct {
	Selected      *timetable.Event
	Lanes         map[string]int
	Conflicts     []ConflictPair
	Announcements []Announcement
	TotalPages    int
	CurrentPage   int
	Display       []timetable.Event
}

type Service interface {
	// Snapshot recomputes the derived board state. Pure over its inputs and
	// safely re-entrant: discarding the result is the only cancellation.
	Snapshot(ctx context.Context) (Snapshot, error)
	// AdvancePage moves the announcement rotation forward one page and
	// recomputes. Recomputation, not mere slicing: the underlying data may
	// have changed between page turns.
	AdvancePage(ctx context.Context) (Snapshot, error)
}

type ServiceImpl struct {
	schedules  schedule.Service
	feed       FeedSource
	clock      utils.Clock
	windowDays int

	mu          sync.Mutex
	currentPage int
}

func NewService(schedules schedule.Service, feed FeedSource, clock utils.Clock, windowDays int) *ServiceImpl {
	return &ServiceImpl{
		schedules:  schedules,
		feed:       feed,
		clock:      clock,
		windowDays: windowDays,
	}
}

func (s *ServiceImpl) Snapshot(ctx context.Context) (Snapshot, error) {
	sched, err := s.schedules.GetSchedule(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load schedule: %w", err)
	}

	var remote []timetable.Event
	if s.feed != nil {
		remote = s.feed.Current()
	}

	now := s.clock.Now()
	projection := schedule.Project(sched, remote, s.windowDays, now)

	announcements := Aggregate(projection.Display, now)

	s.mu.Lock()
	page := s.currentPage
	s.mu.Unlock()
	_, page = announcements.Page(page)

	snapshot := Snapshot{
		Selected:      SelectCurrent(projection.Personal, now),
		Lanes:         AssignLanes(projection.Display, now),
		Conflicts:     FindConflicts(projection.Display, now),
		Announcements: announcements.Items,
		TotalPages:    announcements.TotalPages,
		CurrentPage:   page,
		Display:       projection.Display,
	}

	log.Debugf("board snapshot: %d displayed, %d conflicts, %d announcements",
		len(snapshot.Display), len(snapshot.Conflicts), len(snapshot.Announcements))
	return snapshot, nil
}

func (s *ServiceImpl) AdvancePage(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.currentPage++
	s.mu.Unlock()

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	// Snapshot normalized the index against the fresh page count; keep the
	// stored index in sync so the rotation stays contiguous.
	s.mu.Lock()
	s.currentPage = snapshot.CurrentPage
	s.mu.Unlock()

	return snapshot, nil
}
