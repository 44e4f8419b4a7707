package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryBus is an in-process EventBus implementation with no cross-process
// delivery. It satisfies the same interface as RedisBus and exists for unit
// tests — spec.md's "three stable interfaces... implementations are
// swappable (a local in-memory bus for tests, a cross-process pub/sub for
// production)".
type MemoryBus struct {
	mu       sync.Mutex
	channels map[string]*fanout
	closed   bool
}

func NewMemory() *MemoryBus {
	return &MemoryBus{channels: make(map[string]*fanout)}
}

func (b *MemoryBus) Publish(_ context.Context, channel string, payload any) (int, error) {
	var raw []byte
	switch v := payload.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("eventbus: marshal payload: %w", err)
		}
	}

	b.mu.Lock()
	fo, ok := b.channels[channel]
	b.mu.Unlock()
	if !ok {
		return 0, nil
	}

	fo.mu.Lock()
	n := len(fo.subscribers)
	fo.mu.Unlock()
	fo.broadcast(raw)
	return n, nil
}

func (b *MemoryBus) Subscribe(_ context.Context, channel string) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	fo, ok := b.channels[channel]
	if !ok {
		fo = &fanout{subscribers: make(map[*subscription]struct{})}
		b.channels[channel] = fo
	}

	sub := &subscription{
		msgs:   make(chan []byte, SubscriberBufferSize),
		errs:   make(chan error, 1),
		fanout: fo,
	}

	fo.mu.Lock()
	fo.subscribers[sub] = struct{}{}
	fo.mu.Unlock()

	return sub, nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.channels = nil
	return nil
}
