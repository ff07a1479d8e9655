package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackboard/trackboard/internal/event_bus"
	"github.com/trackboard/trackboard/pkg/timetable"
)

func TestHTTPClientFetchDepartures(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the wire shape onto events", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Write([]byte(`{"trains": [
				{"line": "RE 5", "destination": "Rostock", "plan": "10:00", "actual": "10:05",
				 "durationMinutes": 120, "date": "2025-01-06", "stops": ["Oranienburg", "Neustrelitz"]},
				{"line": "S1", "destination": "Wannsee", "plan": "10:10", "canceled": true,
				 "stops": "Friedrichstr\nPotsdamer Platz"}
			]}`))
		}))
		defer server.Close()

		events, err := NewHTTPClient(server.URL).FetchDepartures(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)

		re := events[0]
		assert.Equal(t, "RE 5", re.Line)
		assert.Equal(t, "10:00", re.PlanTime)
		assert.Equal(t, "10:05", re.ActualTime)
		assert.Equal(t, 120, re.DurationMinutes)
		assert.Equal(t, timetable.SourceRemote, re.Source)
		assert.Equal(t, []string{"Oranienburg", "Neustrelitz"}, re.Stops)
		assert.NotEmpty(t, re.ID)

		s1 := events[1]
		assert.True(t, s1.Canceled)
		assert.Equal(t, []string{"Friedrichstr", "Potsdamer Platz"}, s1.Stops)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"trains": [{"line": "RE 5", "plan": "10:00"}]}`))
		}))
		defer server.Close()

		events, err := NewHTTPClient(server.URL).FetchDepartures(ctx)
		require.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewHTTPClient(server.URL).FetchDepartures(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"trains": [`))
		}))
		defer server.Close()

		_, err := NewHTTPClient(server.URL).FetchDepartures(ctx)
		assert.Error(t, err)
	})

	t.Run("cancellation stops the retry loop", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewHTTPClient(server.URL).FetchDepartures(cancelCtx)
		assert.Error(t, err)
	})
}

func TestServiceRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("caches the last successful fetch", func(t *testing.T) {
		client := &StubClient{Events: []timetable.Event{{ID: "r1", Line: "RE 5", PlanTime: "10:00"}}}
		service := NewService(client, nil)

		service.Refresh(ctx)

		require.Len(t, service.Current(), 1)
		assert.Equal(t, "r1", service.Current()[0].ID)
	})

	t.Run("a failed fetch degrades to an absent feed", func(t *testing.T) {
		client := &StubClient{Events: []timetable.Event{{ID: "r1", Line: "RE 5", PlanTime: "10:00"}}}
		service := NewService(client, nil)
		service.Refresh(ctx)
		require.NotEmpty(t, service.Current())

		client.Err = assert.AnError
		service.Refresh(ctx)

		assert.Nil(t, service.Current())
	})

	t.Run("publishes a push signal after a refresh", func(t *testing.T) {
		bus := event_bus.NewEventBus()
		published := 0
		bus.Subscribe(event_bus.FeedUpdated, func(event_bus.Event) error {
			published++
			return nil
		})
		client := &StubClient{Events: []timetable.Event{{ID: "r1", Line: "RE 5", PlanTime: "10:00"}}}
		service := NewService(client, bus)

		service.Refresh(ctx)

		assert.Equal(t, 1, published)
	})

	t.Run("missing client is a no-op", func(t *testing.T) {
		service := NewService(nil, nil)

		service.Refresh(ctx)

		assert.Nil(t, service.Current())
	})
}
