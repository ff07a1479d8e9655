package feed

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/trackboard/trackboard/internal/event_bus"
	"github.com/trackboard/trackboard/pkg/timetable"
)

// Service caches the last successful feed fetch. A fetch failure degrades to
// an absent feed, never an error into the derivation core: the board then
// falls back to the personal schedule.
type Service struct {
	client   Client
	eventBus *event_bus.EventBus

	mu      sync.RWMutex
	current []timetable.Event
}

func NewService(client Client, eventBus *event_bus.EventBus) *Service {
	return &Service{client: client, eventBus: eventBus}
}

// Refresh fetches the remote feed and replaces the cache.
func (s *Service) Refresh(ctx context.Context) {
	if s.client == nil {
		return
	}

	events, err := s.client.FetchDepartures(ctx)
	if err != nil {
		log.Warnf("feed refresh failed, showing personal schedule: %v", err)
		events = nil
	}

	s.mu.Lock()
	changed := len(events) != len(s.current) || err == nil
	s.current = events
	s.mu.Unlock()

	if changed && s.eventBus != nil {
		if err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.FeedUpdated)); err != nil {
			log.Errorf("failed to publish feed update: %v", err)
		}
	}
}

// Current returns the cached feed, nil when absent.
func (s *Service) Current() []timetable.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
