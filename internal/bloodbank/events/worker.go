package events

import (
	"context"
	"log/slog"
	"time"
)

const drainTimeout = 5 * time.Second

// Sink delivers an event outside the process.
type Sink interface {
	Write(ctx context.Context, e Event) error
}

// DropCounter is notified when the worker's inbox is full.
type DropCounter interface {
	IncrementEventsDropped(eventType string)
}

// Worker forwards bus events to a Sink from a background goroutine so slow
// delivery never holds up an engine operation. Events published while the
// inbox is full are dropped and counted.
type Worker struct {
	sink    Sink
	inbox   chan Event
	logger  *slog.Logger
	metrics DropCounter
}

func NewWorker(sink Sink, buffer int, logger *slog.Logger, metrics DropCounter) *Worker {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		sink:    sink,
		inbox:   make(chan Event, buffer),
		logger:  logger,
		metrics: metrics,
	}
}

// Attach subscribes the worker to every event on the bus.
func (w *Worker) Attach(bus *Bus) {
	bus.SubscribeAll(w.Enqueue)
}

// Enqueue never blocks.
func (w *Worker) Enqueue(ctx context.Context, e Event) error {
	select {
	case w.inbox <- e:
	default:
		w.logger.WarnContext(ctx, "event inbox full, dropping event",
			"event_type", e.Type,
			"event_id", e.ID,
		)
		if w.metrics != nil {
			w.metrics.IncrementEventsDropped(string(e.Type))
		}
	}
	return nil
}

// Run delivers events until ctx is cancelled. Delivery failures are logged
// and do not stop the worker.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case e := <-w.inbox:
			w.deliver(ctx, e)
		}
	}
}

// drain flushes what is already queued using a fresh context, so a clean
// shutdown does not lose committed events.
func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case e := <-w.inbox:
			w.deliver(ctx, e)
		default:
			return
		}
	}
}

func (w *Worker) deliver(ctx context.Context, e Event) {
	if err := w.sink.Write(ctx, e); err != nil {
		w.logger.ErrorContext(ctx, "failed to deliver event",
			"event_type", e.Type,
			"event_id", e.ID,
			"blood_request_id", e.RequestID.String(),
			"error", err,
		)
	}
}
