package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "vpcs:changes:"

// RedisBroker shares change events across instances through redis pub/sub
type RedisBroker struct {
	rdb *redis.Client
}

// NewRedisBroker creates a redis-backed broker
func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb}
}

// Publish sends the event on the topic channel
func (b *RedisBroker) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channelPrefix+ev.Topic, payload).Err()
}

// Subscribe listens on the topic channels until ctx ends or cancel is called
func (b *RedisBroker) Subscribe(ctx context.Context, topics ...string) (<-chan domain.ChangeEvent, func(), error) {
	channels := make([]string, len(topics))
	for i, t := range topics {
		channels[i] = channelPrefix + t
	}

	ps := b.rdb.Subscribe(ctx, channels...)
	// Wait for the subscription to be confirmed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	out := make(chan domain.ChangeEvent, subscriberBuffer)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					config.LogError(config.GetLogger(), "realtime", "Subscribe", "Bad change payload", msg.Channel, err)
					continue
				}
				if ev.Topic == "" {
					ev.Topic = strings.TrimPrefix(msg.Channel, channelPrefix)
				}
				select {
				case out <- ev:
				default:
					config.GetLogger().WithField("topic", ev.Topic).Warn("⚠️ subscriber buffer full, event dropped")
				}
			}
		}
	}()

	return out, cancel, nil
}

// Close closes the underlying client
func (b *RedisBroker) Close() error {
	return b.rdb.Close()
}
