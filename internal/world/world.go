// Package world models the simulated space agents live in: rooms joined
// by exits into a graph that may contain cycles, and a registry of the
// entities occupying them. The World owns the room-id index and is the
// sole authority resolving exit ids to rooms.
package world

import (
	"fmt"
	"sync"

	"github.com/parlor-chat/parlor/internal/bus"
)

// RoomSummary is the read model exposed by ListRooms.
type RoomSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Occupants int    `json:"occupants"`
}

// World owns the room graph and entity registry. Constructed once at
// startup; agents are registered into it by the orchestrator before the
// router accepts traffic.
type World struct {
	bus *bus.Bus

	mu       sync.RWMutex
	rooms    map[string]*Room
	entities map[string]*Entity
}

// New creates an empty world over b.
func New(b *bus.Bus) *World {
	return &World{
		bus:      b,
		rooms:    make(map[string]*Room),
		entities: make(map[string]*Entity),
	}
}

// Bus exposes the underlying event bus.
func (w *World) Bus() *bus.Bus { return w.bus }

// AddRoom registers a room under its entity id.
func (w *World) AddRoom(r *Room) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.rooms[r.ID]; exists {
		return fmt.Errorf("world: duplicate room id %q", r.ID)
	}
	w.rooms[r.ID] = r
	return nil
}

// Validate checks that every exit of every room resolves to a room
// present in the world. A dangling exit is a configuration error, not a
// silent no-op.
func (w *World) Validate() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for id, r := range w.rooms {
		for _, exit := range r.Exits() {
			if _, ok := w.rooms[exit]; !ok {
				return fmt.Errorf("world: room %q has dangling exit %q", id, exit)
			}
		}
	}
	return nil
}

// GetRoom resolves a room id.
func (w *World) GetRoom(id string) (*Room, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.rooms[id]
	return r, ok
}

// ListRooms returns a summary of every room.
func (w *World) ListRooms() []RoomSummary {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]RoomSummary, 0, len(w.rooms))
	for _, r := range w.rooms {
		out = append(out, RoomSummary{ID: r.ID, Name: r.Name, Occupants: len(r.occupants)})
	}
	return out
}

// Register adds a non-room entity (bot, item, system) to the registry.
func (w *World) Register(e *Entity) {
	w.mu.Lock()
	w.entities[e.ID] = e
	w.mu.Unlock()
}

// GetEntity resolves an entity id.
func (w *World) GetEntity(id string) (*Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[id]
	return e, ok
}

// Place moves an entity into a room, leaving its previous room if any.
func (w *World) Place(entityID, roomID string) error {
	w.mu.RLock()
	target, ok := w.rooms[roomID]
	if !ok {
		w.mu.RUnlock()
		return fmt.Errorf("world: unknown room %q", roomID)
	}
	var previous *Room
	for _, r := range w.rooms {
		if r != target {
			for _, occ := range r.occupants {
				if occ == entityID {
					previous = r
					break
				}
			}
		}
	}
	w.mu.RUnlock()

	if previous != nil {
		previous.Leave(entityID)
	}
	target.Enter(entityID)
	return nil
}
