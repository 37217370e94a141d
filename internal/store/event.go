package store

import (
	"database/sql"
	"time"
)

// Event is one recorded finger-count observation: the moment a hand's
// count changed to a new value.
type Event struct {
	ID         string    `json:"id"`
	Side       string    `json:"side"`
	Fingers    int       `json:"fingers"`
	Score      float64   `json:"score"`
	ObservedAt time.Time `json:"observed_at"`
}

// EventRepository provides operations on count events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Insert stores a new count event. A zero ObservedAt is stamped with the
// current time.
func (r *EventRepository) Insert(e *Event) error {
	if e.ObservedAt.IsZero() {
		e.ObservedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO count_events (id, side, fingers, score, observed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Side, e.Fingers, e.Score, e.ObservedAt,
	)
	return err
}

// Recent retrieves the latest events, newest first, capped at limit.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, side, fingers, score, observed_at
		 FROM count_events ORDER BY observed_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Side, &e.Fingers, &e.Score, &e.ObservedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Prune deletes events observed before the cutoff and reports how many
// rows were removed.
func (r *EventRepository) Prune(before time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM count_events WHERE observed_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
