package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBus is the Redis-backed EventBus. Per spec.md's resource model, the
// publisher and subscriber connections are never shared between roles: two
// distinct *redis.Client instances must be supplied.
type RedisBus struct {
	publisher  *redis.Client
	subscriber *redis.Client
	logger     *slog.Logger

	mu       sync.Mutex
	channels map[string]*fanout
	closed   bool
}

// New builds a RedisBus from a dedicated publisher client and a dedicated
// subscriber client.
func New(publisher, subscriber *redis.Client, logger *slog.Logger) *RedisBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBus{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
		channels:   make(map[string]*fanout),
	}
}

func (b *RedisBus) Publish(ctx context.Context, channel string, payload any) (int, error) {
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

	n, err := b.publisher.Publish(ctx, channel, raw).Result()
	if err != nil {
		return 0, fmt.Errorf("eventbus: publish: %w", err)
	}
	return int(n), nil
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}

	fo, ok := b.channels[channel]
	if !ok {
		fo = b.newFanout(channel)
		b.channels[channel] = fo
	}
	b.mu.Unlock()

	sub := &subscription{
		msgs:    make(chan []byte, SubscriberBufferSize),
		errs:    make(chan error, 1),
		fanout:  fo,
	}

	fo.mu.Lock()
	fo.subscribers[sub] = struct{}{}
	fo.mu.Unlock()

	return sub, nil
}

// newFanout subscribes once upstream on Redis and starts the goroutine that
// multiplexes received messages to every local subscriber, matching the
// "one upstream, N local readers" shape.
func (b *RedisBus) newFanout(channel string) *fanout {
	pubsub := b.subscriber.Subscribe(context.Background(), channel)

	fo := &fanout{
		pubsub:      pubsub,
		subscribers: make(map[*subscription]struct{}),
	}

	go func() {
		ch := pubsub.Channel()
		for msg := range ch {
			fo.broadcast([]byte(msg.Payload))
		}
		// Upstream closed: propagate to any remaining subscribers and drop
		// the fanout entry so a future Subscribe resubscribes fresh.
		fo.mu.Lock()
		for sub := range fo.subscribers {
			sub.fail(fmt.Errorf("eventbus: upstream subscription closed"))
		}
		fo.subscribers = nil
		fo.mu.Unlock()

		b.mu.Lock()
		if b.channels[channel] == fo {
			delete(b.channels, channel)
		}
		b.mu.Unlock()
	}()

	return fo
}

func (b *RedisBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	channels := b.channels
	b.channels = nil
	b.mu.Unlock()

	for _, fo := range channels {
		_ = fo.pubsub.Close()
	}

	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, err)
	}
	return squash(errs)
}

func squash(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

// fanout multiplexes one upstream Redis subscription to N local subscribers.
type fanout struct {
	pubsub      *redis.PubSub
	mu          sync.Mutex
	subscribers map[*subscription]struct{}
}

func (fo *fanout) broadcast(payload []byte) {
	fo.mu.Lock()
	defer fo.mu.Unlock()

	for sub := range fo.subscribers {
		select {
		case sub.msgs <- payload:
		default:
			sub.fail(ErrSubscriberOverflow)
			delete(fo.subscribers, sub)
		}
	}
}

func (fo *fanout) remove(sub *subscription) {
	fo.mu.Lock()
	defer fo.mu.Unlock()
	if fo.subscribers != nil {
		delete(fo.subscribers, sub)
	}
}
