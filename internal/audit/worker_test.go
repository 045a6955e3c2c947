package audit

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *capturePublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) snapshot() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

func testEvent(action Action) Event {
	return NewEvent(CategorySecurity, action, time.Now().UTC())
}

func TestWorkerDeliversInOrder(t *testing.T) {
	publisher := &capturePublisher{}
	worker := NewWorker(publisher, slog.New(slog.DiscardHandler), 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	worker.Enqueue(testEvent(ActionAuthFailed))
	worker.Enqueue(testEvent(ActionAuthSucceeded))
	worker.Enqueue(testEvent(ActionPersonRegistered))

	require.Eventually(t, func() bool {
		return len(publisher.snapshot()) == 3
	}, time.Second, 5*time.Millisecond)

	actions := make([]Action, 0, 3)
	for _, event := range publisher.snapshot() {
		actions = append(actions, event.Action)
	}
	assert.Equal(t, []Action{ActionAuthFailed, ActionAuthSucceeded, ActionPersonRegistered}, actions)
	assert.Zero(t, worker.Dropped())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWorkerDropsOldestWhenFull(t *testing.T) {
	publisher := &capturePublisher{}
	worker := NewWorker(publisher, slog.New(slog.DiscardHandler), 2)

	// No Run goroutine yet, so the buffer fills and wraps.
	first := testEvent(ActionAuthFailed)
	second := testEvent(ActionAuthSucceeded)
	third := testEvent(ActionPersonRegistered)
	worker.Enqueue(first)
	worker.Enqueue(second)
	worker.Enqueue(third)

	assert.Equal(t, int64(1), worker.Dropped())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(publisher.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	// The oldest event made way for the newest.
	delivered := publisher.snapshot()
	assert.Equal(t, second.ID, delivered[0].ID)
	assert.Equal(t, third.ID, delivered[1].ID)

	cancel()
	<-done
}

func TestWorkerFlushesOnShutdown(t *testing.T) {
	publisher := &capturePublisher{}
	worker := NewWorker(publisher, slog.New(slog.DiscardHandler), 8)

	worker.Enqueue(testEvent(ActionAuthFailed))
	worker.Enqueue(testEvent(ActionAuthSucceeded))

	// Run with an already-cancelled context: the final flush must still
	// deliver everything buffered before shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := worker.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, publisher.snapshot(), 2)
}
