package schedule

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/trackboard/trackboard/internal/event_bus"
	"github.com/trackboard/trackboard/pkg/timetable"
)

var ErrInvalidEntry = fmt.Errorf("invalid schedule entry")

type Service interface {
	GetSchedule(ctx context.Context) (Schedule, error)
	// ReplaceSchedule persists the complete authoritative lists, dropping
	// entries without a line. It returns the lists as persisted.
	ReplaceSchedule(ctx context.Context, sched Schedule) (Schedule, error)
	DeleteEntry(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) GetSchedule(ctx context.Context) (Schedule, error) {
	sched, err := s.repo.GetSchedule(ctx)
	if err != nil {
		log.Errorf("failed to read schedule: %v", err)
		return Schedule{}, fmt.Errorf("failed to read schedule: %w", err)
	}
	return sched, nil
}

func (s *ServiceImpl) ReplaceSchedule(ctx context.Context, sched Schedule) (Schedule, error) {
	recurring, err := prepareEntries(sched.Recurring, false)
	if err != nil {
		return Schedule{}, err
	}
	adHoc, err := prepareEntries(sched.AdHoc, true)
	if err != nil {
		return Schedule{}, err
	}

	prepared := Schedule{Recurring: recurring, AdHoc: adHoc}
	if err := s.repo.ReplaceSchedule(ctx, prepared); err != nil {
		log.Errorf("failed to persist schedule: %v", err)
		return Schedule{}, fmt.Errorf("failed to persist schedule: %w", err)
	}

	s.publishUpdate(ctx)
	return prepared, nil
}

func (s *ServiceImpl) DeleteEntry(ctx context.Context, id string) error {
	if err := s.repo.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.publishUpdate(ctx)
	return nil
}

func (s *ServiceImpl) publishUpdate(ctx context.Context) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.ScheduleUpdated)); err != nil {
		log.Errorf("failed to publish schedule update: %v", err)
	}
}

// prepareEntries drops line-less entries, assigns missing identities and
// checks that the calendar day is determined by exactly the field the list
// mandates: weekday for the recurring pattern, an explicit date for ad-hoc
// entries.
func prepareEntries(entries []timetable.Event, dated bool) ([]timetable.Event, error) {
	prepared := make([]timetable.Event, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Line) == "" {
			log.Debugf("dropping entry without line (destination %q)", e.Destination)
			continue
		}
		e.EnsureID()
		e.Source = timetable.SourceLocal
		if dated {
			if e.Date == "" {
				return nil, fmt.Errorf("%w: ad-hoc entry %s has no date", ErrInvalidEntry, e.ID)
			}
			e.Weekday = ""
			e.Recurring = false
		} else {
			if e.Weekday == "" {
				return nil, fmt.Errorf("%w: recurring entry %s has no weekday", ErrInvalidEntry, e.ID)
			}
			e.Date = ""
			e.Recurring = true
		}
		prepared = append(prepared, e)
	}
	return prepared, nil
}
