package handlers

import (
	"net/http"
	"sort"

	"github.com/parlor-chat/parlor/internal/agents"
	"github.com/parlor-chat/parlor/internal/world"
)

// RoomsResponse represents the GET /api/rooms response.
type RoomsResponse struct {
	Rooms []world.RoomSummary `json:"rooms"`
}

// Rooms handles GET /api/rooms.
func (h *Handler) Rooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.world.ListRooms()
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	h.JSON(w, http.StatusOK, RoomsResponse{Rooms: rooms})
}

// AgentsResponse represents the GET /api/agents response.
type AgentsResponse struct {
	Default string           `json:"default"`
	Agents  []agents.Profile `json:"agents"`
}

// Agents handles GET /api/agents.
func (h *Handler) Agents(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, AgentsResponse{
		Default: h.registry.DefaultID(),
		Agents:  h.registry.List(),
	})
}
