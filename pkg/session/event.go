package session

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// EventKind names what happened in a session.
type EventKind string

const (
	EventDisplayChanged EventKind = "display_changed"
	EventError          EventKind = "error"
	EventCleared        EventKind = "cleared"
)

// Event describes one action applied to a session.
type Event struct {
	Kind      EventKind
	SessionID string
	Action    string // Canonical key of the action that caused the event.
	Display   string
	Timestamp time.Time
}

// Subscription is one observer's buffered view of an EventBus.
type Subscription struct {
	C <-chan Event

	ch      chan Event
	dropped atomic.Uint64
}

// Dropped returns how many events this subscription missed because C was
// full.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// EventBus delivers session events to observers. Delivery never blocks the
// publisher: an observer that falls behind misses events and its Dropped
// count grows. Safe for concurrent use.
type EventBus struct {
	mu   sync.Mutex
	subs []*Subscription
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers an observer whose channel buffers up to size events.
// Call Unsubscribe when done; it closes C.
func (b *EventBus) Subscribe(size int) *Subscription {
	ch := make(chan Event, size)
	sub := &Subscription{C: ch, ch: ch}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return sub
}

// Unsubscribe detaches sub and closes its channel. Unknown or already
// detached subscriptions are ignored.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.Index(b.subs, sub)
	if i < 0 {
		return
	}
	b.subs = slices.Delete(b.subs, i, i+1)
	close(sub.ch)
}

// Publish offers e to every subscription in subscription order.
func (b *EventBus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
			sub.dropped.Add(1)
		}
	}
}
