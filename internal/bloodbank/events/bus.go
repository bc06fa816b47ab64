package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Handler consumes one event. Handlers run synchronously in the publisher's
// goroutine, after the transaction that produced the event has committed.
type Handler func(ctx context.Context, e Event) error

// Bus is an in-process publish/subscribe dispatcher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	all      []Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Type][]Handler)}
}

// Subscribe registers h for one event type.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers h for every event type.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Publish delivers events in order to type subscribers first, then to
// catch-all subscribers. Every handler runs even if an earlier one fails;
// the failures are joined into the returned error.
func (b *Bus) Publish(ctx context.Context, events ...Event) error {
	var errs []error
	for _, e := range events {
		b.mu.RLock()
		handlers := make([]Handler, 0, len(b.handlers[e.Type])+len(b.all))
		handlers = append(handlers, b.handlers[e.Type]...)
		handlers = append(handlers, b.all...)
		b.mu.RUnlock()

		for _, h := range handlers {
			if err := h(ctx, e); err != nil {
				errs = append(errs, fmt.Errorf("%s handler: %w", e.Type, err))
			}
		}
	}
	return errors.Join(errs...)
}
