package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/sqs"
)

// pendingBatchSize caps how many events one worker tick drains.
const pendingBatchSize = 100

// Store is the outbox persistence the worker drains.
type Store interface {
	ListPending(ctx context.Context, limit int) ([]*Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

// Worker polls the outbox store and publishes pending events to the
// notification queue.
type Worker struct {
	store     Store
	publisher Publisher
	interval  time.Duration
	stopChan  chan struct{}
}

// NewWorker creates a new outbox Worker.
func NewWorker(store Store, publisher Publisher, interval time.Duration) *Worker {
	return &Worker{
		store:     store,
		publisher: publisher,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins processing events from the outbox until the context is
// cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker stopped by context")
			return
		case <-w.stopChan:
			slog.Info("Outbox worker stopped")
			return
		case <-ticker.C:
			w.processEvents(ctx)
		}
	}
}

// Stop stops the outbox worker.
func (w *Worker) Stop() {
	close(w.stopChan)
}

// processEvents retrieves and publishes pending events.
func (w *Worker) processEvents(ctx context.Context) {
	events, err := w.store.ListPending(ctx, pendingBatchSize)
	if err != nil {
		slog.Error("Failed to retrieve pending events", slog.Any("err", err))
		return
	}

	if len(events) == 0 {
		return
	}

	slog.Info("Processing pending events", slog.Int("count", len(events)))

	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			slog.Error("Failed to process event",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.EventType),
				slog.Any("err", err))

			if updateErr := w.store.UpdateStatus(ctx, event.ID, StatusFailed); updateErr != nil {
				slog.Error("Failed to update event status to failed",
					slog.String("event_id", event.ID.String()),
					slog.Any("err", updateErr))
			}
			continue
		}

		if updateErr := w.store.UpdateStatus(ctx, event.ID, StatusProcessed); updateErr != nil {
			slog.Error("Failed to update event status to processed",
				slog.String("event_id", event.ID.String()),
				slog.Any("err", updateErr))
			continue
		}

		slog.Info("Event processed successfully",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType))
	}
}

// processEvent publishes a single event to the queue.
func (w *Worker) processEvent(ctx context.Context, event *Event) error {
	var msg sqs.ProductMessage
	if err := json.Unmarshal(event.EventData, &msg); err != nil {
		return err
	}

	return w.publisher.PublishProductMessage(ctx, msg)
}
