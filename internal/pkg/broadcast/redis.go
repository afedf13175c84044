package broadcast

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

// RedisBus relays events through Redis PUBLISH/SUBSCRIBE so every BFF instance sees them.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(ctx context.Context, channel string, ev Event) error {
	payload, err := ev.Marshal()
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string) (<-chan Event, func(), error) {
	ps := b.client.Subscribe(ctx, channel)
	// Wait for the subscription confirmation so early publishes are not lost.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	out := make(chan Event, subscriberBuffer)
	var once sync.Once
	cancel := func() {
		once.Do(func() { _ = ps.Close() })
	}

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				ev, err := Unmarshal([]byte(msg.Payload))
				if err != nil {
					log.Warnf("[Broadcast] Dropping malformed event on %s: %v", channel, err)
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()

	return out, cancel, nil
}
