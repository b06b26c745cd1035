package events

import (
	"context"
	"sync"
	"time"
)

// LocalBus fans events out to in-process subscribers synchronously.
type LocalBus struct {
	producer string

	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewLocalBus(producer string) *LocalBus {
	return &LocalBus{producer: producer, handlers: make(map[string][]Handler)}
}

func (b *LocalBus) Producer() string { return b.producer }

func (b *LocalBus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *LocalBus) Publish(ctx context.Context, ev Event) error {
	b.dispatch(ctx, b.stamp(ctx, ev))
	return nil
}

func (b *LocalBus) stamp(ctx context.Context, ev Event) Event {
	if ev.Producer == "" {
		ev.Producer = b.producer
	}
	if ev.CorrelationID == "" {
		ev.CorrelationID = CorrelationID(ctx)
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	return ev
}

func (b *LocalBus) dispatch(ctx context.Context, ev Event) {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[ev.Name]...)
	b.mu.RUnlock()

	for _, h := range hs {
		h(ctx, ev)
	}
}
