// Package realtime fans table change notifications out to subscribers.
package realtime

import (
	"context"
	"sync"

	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
)

const subscriberBuffer = 16

// MemoryBroker delivers events to subscribers in this process
type MemoryBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscriber
}

type subscriber struct {
	topics map[string]struct{}
	ch     chan domain.ChangeEvent
}

// NewMemoryBroker creates an in-process broker
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[int]*subscriber)}
}

// Publish delivers the event to every subscriber of its topic. A subscriber
// whose buffer is full misses the event; it refetches on the next one.
func (b *MemoryBroker) Publish(_ context.Context, ev domain.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.subs {
		if _, ok := s.topics[ev.Topic]; !ok {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			config.GetLogger().WithField("topic", ev.Topic).Warn("⚠️ subscriber buffer full, event dropped")
		}
	}
	return nil
}

// Subscribe returns a channel of events for the topics. The channel closes
// when ctx ends or cancel is called.
func (b *MemoryBroker) Subscribe(ctx context.Context, topics ...string) (<-chan domain.ChangeEvent, func(), error) {
	s := &subscriber{
		topics: make(map[string]struct{}, len(topics)),
		ch:     make(chan domain.ChangeEvent, subscriberBuffer),
	}
	for _, t := range topics {
		s.topics[t] = struct{}{}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
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

// Close is a no-op for the memory broker
func (b *MemoryBroker) Close() error {
	return nil
}
