package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/outbox"
)

const (
	insertEventQuery = `INSERT INTO events (id, event_type, event_data, status, created_at, processed_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	listPendingEventsQuery = `SELECT id, event_type, event_data, status, created_at, processed_at
	          FROM events
	          WHERE status = $1
	          ORDER BY created_at ASC
	          LIMIT $2`

	updateEventStatusQuery = `UPDATE events SET status = $1, processed_at = CURRENT_TIMESTAMP WHERE id = $2`
)

// EventRepository stores outbox events in PostgreSQL. It serves as both the
// outbox.Recorder the catalog writes through and the outbox.Store the worker
// drains.
type EventRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewEventRepository creates a new EventRepository instance.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *EventRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// Record inserts a pending event into the outbox.
func (r *EventRepository) Record(ctx context.Context, event *outbox.Event) error {
	stmt, err := r.getExecutor().PrepareContext(ctx, insertEventQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, event.ID, event.EventType, event.EventData, event.Status, event.CreatedAt, event.ProcessedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// ListPending returns up to limit pending events, oldest first.
func (r *EventRepository) ListPending(ctx context.Context, limit int) ([]*outbox.Event, error) {
	stmt, err := r.getExecutor().PrepareContext(ctx, listPendingEventsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, outbox.StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*outbox.Event
	for rows.Next() {
		var event outbox.Event
		var processedAt sql.NullTime
		err := rows.Scan(&event.ID, &event.EventType, &event.EventData, &event.Status, &event.CreatedAt, &processedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if processedAt.Valid {
			event.ProcessedAt = &processedAt.Time
		}
		events = append(events, &event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

// UpdateStatus updates the status and processed_at time of an event.
func (r *EventRepository) UpdateStatus(ctx context.Context, eventID uuid.UUID, status outbox.Status) error {
	stmt, err := r.getExecutor().PrepareContext(ctx, updateEventStatusQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, status, eventID)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	return nil
}
