package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Run represents one counting run stored in the database.
type Run struct {
	ID              string
	Source          string
	Model           string
	Confidence      float64
	Frames          int
	DurationSeconds float64
	Total           int
	StartedAt       time.Time
	FinishedAt      sql.NullTime
}

// RunRepository provides CRUD operations for runs.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

// Create inserts a new run into the database.
func (r *RunRepository) Create(run *Run) error {
	run.StartedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO runs (id, source, model, confidence, frames, duration_seconds, total, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Model, run.Confidence, run.Frames, run.DurationSeconds, run.Total, run.StartedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// Finish records the final frame count, duration and total for a run.
func (r *RunRepository) Finish(id string, frames int, durationSeconds float64, total int) error {
	result, err := r.db.Exec(
		`UPDATE runs SET frames = ?, duration_seconds = ?, total = ?, finished_at = ?
		 WHERE id = ?`,
		frames, durationSeconds, total, time.Now(), id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	run := &Run{}

	err := r.db.QueryRow(
		`SELECT id, source, model, confidence, frames, duration_seconds, total, started_at, finished_at
		 FROM runs WHERE id = ?`,
		id,
	).Scan(&run.ID, &run.Source, &run.Model, &run.Confidence, &run.Frames,
		&run.DurationSeconds, &run.Total, &run.StartedAt, &run.FinishedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return run, nil
}

// List retrieves all runs, most recent first.
func (r *RunRepository) List() ([]*Run, error) {
	rows, err := r.db.Query(
		`SELECT id, source, model, confidence, frames, duration_seconds, total, started_at, finished_at
		 FROM runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		err := rows.Scan(&run.ID, &run.Source, &run.Model, &run.Confidence, &run.Frames,
			&run.DurationSeconds, &run.Total, &run.StartedAt, &run.FinishedAt)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// Delete removes a run and, via cascade, its events.
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
