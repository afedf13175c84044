package broadcast

import (
	"context"
	"sync"
)

const subscriberBuffer = 8

// MemoryBus is an in-process Bus for single-instance deployments and tests.
type MemoryBus struct {
	mu   sync.RWMutex
	subs map[string]map[*memorySub]struct{}
}

type memorySub struct {
	ch   chan Event
	once sync.Once
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[*memorySub]struct{})}
}

func (b *MemoryBus) Publish(_ context.Context, channel string, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs[channel] {
		select {
		case s.ch <- ev:
		default:
			// subscriber is behind, drop
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, channel string) (<-chan Event, func(), error) {
	s := &memorySub{ch: make(chan Event, subscriberBuffer)}

	b.mu.Lock()
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[*memorySub]struct{})
	}
	b.subs[channel][s] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		s.once.Do(func() {
			b.mu.Lock()
			delete(b.subs[channel], s)
			if len(b.subs[channel]) == 0 {
				delete(b.subs, channel)
			}
			b.mu.Unlock()
			close(s.ch)
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return s.ch, cancel, nil
}

// Subscribers returns the number of live subscriptions on channel.
func (b *MemoryBus) Subscribers(channel string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[channel])
}
