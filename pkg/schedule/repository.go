package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/trackboard/trackboard/pkg/timetable"
)

var ErrEntryNotFound = errors.New("schedule entry not found")

type Repository interface {
	// GetSchedule reads both authoritative lists.
	GetSchedule(ctx context.Context) (Schedule, error)
	// ReplaceSchedule writes the complete authoritative lists in one
	// transaction: upsert by id, then prune rows no longer present. The
	// core never writes a partial patch.
	ReplaceSchedule(ctx context.Context, sched Schedule) error
	// DeleteEntry removes one entry from whichever list holds it.
	DeleteEntry(ctx context.Context, id string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetSchedule(ctx context.Context) (Schedule, error) {
	recurring, err := r.queryEntries(ctx,
		`SELECT id, line, destination, plan_time, actual_time, duration_minutes, '', weekday, canceled, stops
		 FROM recurring_entry ORDER BY position, id`)
	if err != nil {
		return Schedule{}, fmt.Errorf("could not read recurring entries: %w", err)
	}
	for i := range recurring {
		recurring[i].Recurring = true
	}

	adHoc, err := r.queryEntries(ctx,
		`SELECT id, line, destination, plan_time, actual_time, duration_minutes, date, '', canceled, stops
		 FROM adhoc_entry ORDER BY position, id`)
	if err != nil {
		return Schedule{}, fmt.Errorf("could not read ad-hoc entries: %w", err)
	}

	return Schedule{Recurring: recurring, AdHoc: adHoc}, nil
}

func (r *RepositoryImpl) queryEntries(ctx context.Context, query string) ([]timetable.Event, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []timetable.Event
	for rows.Next() {
		var e timetable.Event
		var canceled int
		var stopsJSON string
		err := rows.Scan(&e.ID, &e.Line, &e.Destination, &e.PlanTime, &e.ActualTime,
			&e.DurationMinutes, &e.Date, &e.Weekday, &canceled, &stopsJSON)
		if err != nil {
			return nil, err
		}
		e.Canceled = canceled != 0
		e.Source = timetable.SourceLocal
		if stopsJSON != "" {
			if err := json.Unmarshal([]byte(stopsJSON), &e.Stops); err != nil {
				log.Warnf("ignoring malformed stops for entry %s: %v", e.ID, err)
				e.Stops = nil
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *RepositoryImpl) ReplaceSchedule(ctx context.Context, sched Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceList(ctx, tx, "recurring_entry", sched.Recurring, false); err != nil {
		return err
	}
	if err := replaceList(ctx, tx, "adhoc_entry", sched.AdHoc, true); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit schedule replace: %w", err)
	}
	return nil
}

func replaceList(ctx context.Context, tx *sql.Tx, table string, entries []timetable.Event, dated bool) error {
	dayColumn := "weekday"
	dayValue := func(e timetable.Event) string { return e.Weekday }
	if dated {
		dayColumn = "date"
		dayValue = func(e timetable.Event) string { return e.Date }
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, line, destination, plan_time, actual_time, duration_minutes, %s, canceled, stops, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			line = excluded.line,
			destination = excluded.destination,
			plan_time = excluded.plan_time,
			actual_time = excluded.actual_time,
			duration_minutes = excluded.duration_minutes,
			%s = excluded.%s,
			canceled = excluded.canceled,
			stops = excluded.stops,
			position = excluded.position`, table, dayColumn, dayColumn, dayColumn)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare upsert for %s: %w", table, err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	kept := make([]any, 0, len(entries))
	for position, e := range entries {
		canceled := 0
		if e.Canceled {
			canceled = 1
		}
		stopsJSON, err := json.Marshal(e.Stops)
		if err != nil {
			return fmt.Errorf("could not encode stops for entry %s: %w", e.ID, err)
		}
		_, err = stmt.ExecContext(ctx, e.ID, e.Line, e.Destination, e.PlanTime, e.ActualTime,
			e.DurationMinutes, dayValue(e), canceled, string(stopsJSON), position)
		if err != nil {
			err := fmt.Errorf("could not upsert entry %s into %s: %w", e.ID, table, err)
			log.Error(err)
			return err
		}
		kept = append(kept, e.ID)
	}

	// Prune rows absent from the written list.
	if len(kept) == 0 {
		_, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table))
		return err
	}
	placeholders := "?"
	for i := 1; i < len(kept); i++ {
		placeholders += ", ?"
	}
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id NOT IN (%s)", table, placeholders), kept...)
	return err
}

func (r *RepositoryImpl) DeleteEntry(ctx context.Context, id string) error {
	deleted := int64(0)
	for _, table := range []string{"recurring_entry", "adhoc_entry"} {
		result, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
		if err != nil {
			return fmt.Errorf("could not delete entry %s: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("could not read affected rows: %w", err)
		}
		deleted += affected
	}
	if deleted == 0 {
		return ErrEntryNotFound
	}
	return nil
}
