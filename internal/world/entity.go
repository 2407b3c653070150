package world

import (
	"sync"

	"github.com/parlor-chat/parlor/internal/bus"
)

// Kind categorizes an entity.
type Kind string

const (
	KindRoom   Kind = "room"
	KindBot    Kind = "bot"
	KindItem   Kind = "item"
	KindSystem Kind = "system"
)

// Entity is the uniform wrapper giving any world object an identity plus
// emit/subscribe/destroy over the event bus. It accumulates its own
// unsubscribe capabilities and releases them all on Destroy.
type Entity struct {
	ID          string
	Kind        Kind
	Name        string
	Description string

	bus *bus.Bus

	mu     sync.Mutex
	unsubs []func()
}

// NewEntity creates an entity bound to b.
func NewEntity(b *bus.Bus, id string, kind Kind, name, description string) *Entity {
	return &Entity{ID: id, Kind: kind, Name: name, Description: description, bus: b}
}

// Emit publishes an event authored by this entity.
func (e *Entity) Emit(eventType, targetID string, payload any) {
	e.bus.Publish(bus.Event{Type: eventType, SourceID: e.ID, TargetID: targetID, Payload: payload})
}

// Subscribe registers handler for a broadcast event type. The
// subscription is released on Destroy.
func (e *Entity) Subscribe(eventType string, handler bus.Handler) {
	e.track(e.bus.Subscribe(eventType, handler))
}

// SubscribeSelf registers handler for events of eventType directed at
// this entity's id.
func (e *Entity) SubscribeSelf(eventType string, handler bus.Handler) {
	e.track(e.bus.Subscribe(eventType+":"+e.ID, handler))
}

func (e *Entity) track(unsub func()) {
	e.mu.Lock()
	e.unsubs = append(e.unsubs, unsub)
	e.mu.Unlock()
}

// Destroy releases every subscription this entity holds.
func (e *Entity) Destroy() {
	e.mu.Lock()
	unsubs := e.unsubs
	e.unsubs = nil
	e.mu.Unlock()
	for _, u := range unsubs {
		u()
	}
}

// Inspect returns a short human-readable description.
func (e *Entity) Inspect() string {
	if e.Description == "" {
		return e.Name
	}
	return e.Name + ": " + e.Description
}
