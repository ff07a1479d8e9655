package schedule

import (
	"context"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	Sched      Schedule
	ReplaceErr error
	Replaced   int
}

func (s *StubRepository) GetSchedule(ctx context.Context) (Schedule, error) {
	return s.Sched, nil
}

func (s *StubRepository) ReplaceSchedule(ctx context.Context, sched Schedule) error {
	if s.ReplaceErr != nil {
		return s.ReplaceErr
	}
	s.Sched = sched
	s.Replaced++
	return nil
}

func (s *StubRepository) DeleteEntry(ctx context.Context, id string) error {
	for i, e := range s.Sched.Recurring {
		if e.ID == id {
			s.Sched.Recurring = append(s.Sched.Recurring[:i], s.Sched.Recurring[i+1:]...)
			return nil
		}
	}
	for i, e := range s.Sched.AdHoc {
		if e.ID == id {
			s.Sched.AdHoc = append(s.Sched.AdHoc[:i], s.Sched.AdHoc[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}
