package livesync

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/trackboard/trackboard/internal/event_bus"
)

// SSEHandler streams zero-payload "update" events to the board whenever the
// authoritative schedule or the remote feed changed. The client reacts by
// re-fetching the snapshot; suppression while editing happens server-side
// in the Coordinator, so the stream itself is unconditional.
type SSEHandler struct {
	eventBus *event_bus.EventBus
}

func NewSSEHandler(eventBus *event_bus.EventBus) *SSEHandler {
	return &SSEHandler{eventBus: eventBus}
}

func (h *SSEHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates := make(chan struct{}, 8)
	notify := func(event_bus.Event) error {
		select {
		case updates <- struct{}{}:
		default:
			// Client is already behind one full refresh; coalesce.
		}
		return nil
	}
	for _, eventType := range []event_bus.EventType{
		event_bus.ScheduleUpdated,
		event_bus.FeedUpdated,
		event_bus.BoardRotated,
	} {
		unsubscribe := h.eventBus.Subscribe(eventType, notify)
		defer unsubscribe()
	}

	// Initial comment keeps proxies from buffering the stream.
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			log.Debug("SSE client disconnected")
			return
		case <-updates:
			fmt.Fprint(w, "event: update\ndata: {}\n\n")
			flusher.Flush()
		}
	}
}
