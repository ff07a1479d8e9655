package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/trackboard/trackboard/pkg/timetable"
)

const userAgent = "trackboard/1.0"

// fetchRetries is how often a failed fetch is retried before giving up for
// this cycle.
const fetchRetries = 2

// Client fetches the remote live departures feed.
type Client interface {
	FetchDepartures(ctx context.Context) ([]timetable.Event, error)
}

type HTTPClient struct {
	url        string
	httpClient *http.Client
}

func NewHTTPClient(url string) *HTTPClient {
	return &HTTPClient{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// feedTrain is the remote wire shape. Stops may arrive as an array or as a
// newline-joined string; normalization happens once, here.
type feedTrain struct {
	Line            string `json:"line"`
	Destination     string `json:"destination"`
	Plan            string `json:"plan"`
	Actual          string `json:"actual"`
	DurationMinutes int    `json:"durationMinutes"`
	Date            string `json:"date"`
	Canceled        bool   `json:"canceled"`
	Stops           any    `json:"stops"`
}

type feedResponse struct {
	Trains []feedTrain `json:"trains"`
}

func (c *HTTPClient) FetchDepartures(ctx context.Context) ([]timetable.Event, error) {
	var lastErr error
	for attempt := 0; attempt <= fetchRetries; attempt++ {
		if attempt > 0 {
			// Jittered pause between attempts.
			delay := 300*time.Millisecond + time.Duration(rand.Int63n(int64(500*time.Millisecond)))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		events, err := c.fetch(ctx)
		if err == nil {
			return events, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *HTTPClient) fetch(ctx context.Context) ([]timetable.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("could not decode feed response: %w", err)
	}

	events := make([]timetable.Event, 0, len(payload.Trains))
	for _, t := range payload.Trains {
		e := timetable.Event{
			Line:            t.Line,
			Destination:     t.Destination,
			PlanTime:        t.Plan,
			ActualTime:      t.Actual,
			DurationMinutes: t.DurationMinutes,
			Date:            t.Date,
			Canceled:        t.Canceled,
			Source:          timetable.SourceRemote,
			Stops:           timetable.NormalizeStops(t.Stops),
		}
		e.EnsureID()
		events = append(events, e)
	}
	return events, nil
}
