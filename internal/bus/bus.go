// Package bus is the in-process publish/subscribe backbone the world's
// entities communicate over. Subscribers register for an event type;
// events carrying a target id are additionally delivered on the composite
// "type:targetId" channel so an entity can receive directed events without
// polling.
package bus

import "sync"

// Event is a single occurrence on the bus.
type Event struct {
	Type     string
	SourceID string
	TargetID string // optional; enables directed delivery
	Payload  any
}

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus routes events to subscribers. Safe for concurrent use; handlers run
// synchronously on the publisher's goroutine, outside the bus lock, so a
// handler may publish further events.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string][]subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe registers handler for events of the exact channel (either a
// plain type or a composite "type:targetId"). The returned function
// removes the subscription; calling it more than once is harmless.
func (b *Bus) Subscribe(channel string, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[channel] = append(b.subs[channel], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[channel]
		for i, s := range list {
			if s.id == id {
				b.subs[channel] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(b.subs[channel]) == 0 {
			delete(b.subs, channel)
		}
	}
}

// Publish delivers ev to subscribers of ev.Type and, when ev.TargetID is
// set, to subscribers of "Type:TargetID".
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	handlers := make([]Handler, 0, 4)
	for _, s := range b.subs[ev.Type] {
		handlers = append(handlers, s.handler)
	}
	if ev.TargetID != "" {
		for _, s := range b.subs[ev.Type+":"+ev.TargetID] {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// SubscriberCount reports the number of live subscriptions, for stats.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, list := range b.subs {
		n += len(list)
	}
	return n
}
