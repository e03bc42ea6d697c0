package outbox

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/iyhunko/product-catalog/internal/sqs"
)

// Recorder captures product events for delivery.
type Recorder interface {
	Record(ctx context.Context, event *Event) error
}

// Publisher sends product messages to the notification queue.
type Publisher interface {
	PublishProductMessage(ctx context.Context, msg sqs.ProductMessage) error
}

// DirectRecorder publishes events straight to the queue instead of staging
// them in a store. It backs the in-memory storage driver, which has no
// transaction to stage an outbox row in. Delivery is best effort: a publish
// failure is logged and the command carries on.
type DirectRecorder struct {
	publisher Publisher
}

// NewDirectRecorder creates a Recorder that publishes immediately.
func NewDirectRecorder(publisher Publisher) *DirectRecorder {
	return &DirectRecorder{publisher: publisher}
}

// Record publishes the event's payload to the queue.
func (r *DirectRecorder) Record(ctx context.Context, event *Event) error {
	var msg sqs.ProductMessage
	if err := json.Unmarshal(event.EventData, &msg); err != nil {
		slog.Error("Failed to decode product event payload",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
			slog.Any("err", err))
		return nil
	}

	if err := r.publisher.PublishProductMessage(ctx, msg); err != nil {
		// Log error but don't fail the request
		slog.Error("Failed to send SQS message",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
			slog.Any("err", err))
	}
	return nil
}
