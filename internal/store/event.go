package store

import (
	"database/sql"
	"errors"
	"time"
)

// Event represents a persisted count event.
type Event struct {
	ID        int64
	RunID     string
	TrackID   int
	Zone      string
	Direction string
	Frame     int
	CreatedAt time.Time
}

// EventRepository provides operations for count events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a new count event into the database.
func (r *EventRepository) Create(e *Event) error {
	e.CreatedAt = time.Now()

	result, err := r.db.Exec(
		`INSERT INTO count_events (run_id, track_id, zone, direction, frame, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.RunID, e.TrackID, e.Zone, e.Direction, e.Frame, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	e.ID, err = result.LastInsertId()
	if err != nil {
		return err
	}

	return nil
}

// ListByRun retrieves all events for a run in emission order.
func (r *EventRepository) ListByRun(runID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, run_id, track_id, zone, direction, frame, created_at
		 FROM count_events WHERE run_id = ? ORDER BY id ASC`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		err := rows.Scan(&e.ID, &e.RunID, &e.TrackID, &e.Zone, &e.Direction, &e.Frame, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// GetByID retrieves a single event.
func (r *EventRepository) GetByID(id int64) (*Event, error) {
	e := &Event{}

	err := r.db.QueryRow(
		`SELECT id, run_id, track_id, zone, direction, frame, created_at
		 FROM count_events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.RunID, &e.TrackID, &e.Zone, &e.Direction, &e.Frame, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return e, nil
}

// TotalsByRun returns the per-zone, per-direction event counts for a run.
func (r *EventRepository) TotalsByRun(runID string) (map[string]map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT zone, direction, COUNT(*)
		 FROM count_events WHERE run_id = ?
		 GROUP BY zone, direction`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]map[string]int)
	for rows.Next() {
		var zone, direction string
		var count int
		if err := rows.Scan(&zone, &direction, &count); err != nil {
			return nil, err
		}
		if totals[zone] == nil {
			totals[zone] = make(map[string]int)
		}
		totals[zone][direction] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}
