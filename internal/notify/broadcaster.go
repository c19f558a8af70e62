// Package notify implements the best-effort change broadcast emitted by the
// local store on every prompt mutation. Delivery is not guaranteed: slow
// subscribers miss events rather than block writers.
package notify

import "sync"

// EventType classifies a store mutation.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event describes one changed record.
type Event struct {
	Type EventType
	ID   string
}

// subscriber channels hold this many undelivered events before drops begin.
const subscriberBuffer = 16

// Broadcaster fans Events out to subscribers. The zero value is not usable;
// call NewBroadcaster.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called to release the subscription; the channel is closed afterwards.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Publish delivers e to every subscriber that has buffer room. It never
// blocks and never fails.
func (b *Broadcaster) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber is behind; drop
		}
	}
}
