package world

import "slices"

// Room is a location entities occupy. Exits reference other rooms by id,
// never by pointer: the room graph may contain cycles, and adjacency is
// resolved through the World's id index.
type Room struct {
	*Entity

	occupants []string // ordered by arrival
	exits     []string // room ids
}

// NewRoom creates a room with the given exits.
func NewRoom(e *Entity, exits ...string) *Room {
	return &Room{Entity: e, exits: exits}
}

// Enter adds id to the occupant list if not already present and announces
// the arrival to the room's channel.
func (r *Room) Enter(id string) {
	if slices.Contains(r.occupants, id) {
		return
	}
	r.occupants = append(r.occupants, id)
	r.Emit("room.entered", r.ID, id)
}

// Leave removes id from the occupant list.
func (r *Room) Leave(id string) {
	if i := slices.Index(r.occupants, id); i >= 0 {
		r.occupants = append(r.occupants[:i], r.occupants[i+1:]...)
		r.Emit("room.left", r.ID, id)
	}
}

// Occupants returns a copy of the occupant ids in arrival order.
func (r *Room) Occupants() []string {
	return slices.Clone(r.occupants)
}

// Exits returns a copy of the exit room ids.
func (r *Room) Exits() []string {
	return slices.Clone(r.exits)
}
