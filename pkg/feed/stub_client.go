package feed

import (
	"context"

	"github.com/trackboard/trackboard/pkg/timetable"
)

// StubClient is an in-memory Client for tests.
type StubClient struct {
	Events []timetable.Event
	Err    error
}

func (s *StubClient) FetchDepartures(ctx context.Context) ([]timetable.Event, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Events, nil
}
