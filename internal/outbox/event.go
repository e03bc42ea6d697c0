package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the catalog.
const (
	EventTypeProductCreated      = "product.created"
	EventTypeProductUpdated      = "product.updated"
	EventTypeProductDeleted      = "product.deleted"
	EventTypeProductStockChanged = "product.stock_changed"
)

// Status represents the delivery state of an outbox event.
type Status string

const (
	// StatusPending indicates the event has been recorded but not yet published.
	StatusPending Status = "pending"
	// StatusProcessed indicates the event has been published.
	StatusProcessed Status = "processed"
	// StatusFailed indicates publishing the event has failed.
	StatusFailed Status = "failed"
)

// Event is a product change awaiting delivery to the notification queue.
type Event struct {
	ID          uuid.UUID
	EventType   string
	EventData   json.RawMessage
	Status      Status
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// NewEvent builds a pending event carrying the payload marshaled to JSON.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return &Event{
		ID:        uuid.New(),
		EventType: eventType,
		EventData: data,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}
