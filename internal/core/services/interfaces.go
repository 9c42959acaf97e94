package services

import (
	"context"
	"time"

	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
)

// Note: each service lives in its own *_service.go file. The interfaces below
// are the ports they need from adapters.

// Publisher announces that a table changed
type Publisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
}

// Subscriber receives change events until cancel is called or ctx ends
type Subscriber interface {
	Subscribe(ctx context.Context, topics ...string) (<-chan domain.ChangeEvent, func(), error)
}

// Broker is both ends of the change feed
type Broker interface {
	Publisher
	Subscriber
	Close() error
}

// Locker serializes read-then-write checks on a key
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(), err error)
}

// ObjectStore keeps exported files and hands out download links
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (url string, err error)
}

// IdentityProvider runs the OAuth authorization code flow
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.Identity, error)
}

// Clock returns the current time
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// updatedAtPrecision is the finest step every supported database keeps.
// MySQL datetime(3) stores milliseconds.
const updatedAtPrecision = time.Millisecond

// nextUpdatedAt returns a timestamp strictly after prev at the stored
// precision, so two writes in the same millisecond still move forward.
func nextUpdatedAt(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(updatedAtPrecision)
	prev = prev.UTC().Truncate(updatedAtPrecision)
	if !now.After(prev) {
		return prev.Add(updatedAtPrecision)
	}
	return now
}

// actorID returns the user id for audit columns; role-code sessions have none
func actorID(a domain.Actor) *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

// publish sends a change event. A failed publish never fails the mutation.
func publish(ctx context.Context, p Publisher, topic, action string, id uint, actor domain.Actor, at time.Time) {
	if p == nil {
		return
	}
	ev := domain.ChangeEvent{Topic: topic, Action: action, ID: id, Actor: actor.Email, At: at}
	if err := p.Publish(ctx, ev); err != nil {
		config.LogError(config.GetLogger(), "services", "publish", "Error publishing change event", ev, err)
	}
}

// withLock runs fn while holding key. A nil locker runs fn directly.
func withLock(ctx context.Context, l Locker, key string, fn func() error) error {
	if l == nil {
		return fn()
	}
	release, err := l.Obtain(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}
