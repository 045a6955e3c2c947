package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Worker decouples event emission from delivery. Domain code enqueues without
// blocking; a background goroutine drains a bounded buffer to the publisher.
// When the buffer is full the oldest event is dropped, which keeps a slow sink
// from stalling the request path.
type Worker struct {
	publisher Publisher
	logger    *slog.Logger

	mu      sync.Mutex
	events  []Event
	head    int
	count   int
	dropped int64

	wake chan struct{}
}

// NewWorker builds a worker with the given buffer capacity.
func NewWorker(publisher Publisher, logger *slog.Logger, capacity int) *Worker {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Worker{
		publisher: publisher,
		logger:    logger,
		events:    make([]Event, capacity),
		wake:      make(chan struct{}, 1),
	}
}

// Enqueue adds an event for asynchronous delivery. Never blocks.
func (w *Worker) Enqueue(event Event) {
	w.mu.Lock()
	capacity := len(w.events)
	if w.count == capacity {
		// Overwrite the oldest slot.
		w.head = (w.head + 1) % capacity
		w.count--
		w.dropped++
	}
	w.events[(w.head+w.count)%capacity] = event
	w.count++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Dropped reports how many events were discarded due to a full buffer.
func (w *Worker) Dropped() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

// Run drains the buffer until ctx is cancelled, then flushes what remains.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush(context.WithoutCancel(ctx))
			return ctx.Err()
		case <-w.wake:
			w.flush(ctx)
		}
	}
}

func (w *Worker) flush(ctx context.Context) {
	for {
		event, ok := w.dequeue()
		if !ok {
			return
		}
		if err := w.publisher.Publish(ctx, event); err != nil {
			w.logger.WarnContext(ctx, "audit publish failed",
				"audit_id", event.ID,
				"action", string(event.Action),
				"error", err,
			)
		}
	}
}

func (w *Worker) dequeue() (Event, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.count == 0 {
		return Event{}, false
	}
	event := w.events[w.head]
	w.head = (w.head + 1) % len(w.events)
	w.count--
	return event, true
}
