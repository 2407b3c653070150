// Package handlers maps the HTTP surface onto the dispatch core and
// translates its error taxonomy into status codes.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parlor-chat/parlor/internal/agents"
	"github.com/parlor-chat/parlor/internal/dispatch"
	"github.com/parlor-chat/parlor/internal/world"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	router   *dispatch.Router
	registry *agents.Registry
	world    *world.World
	logger   zerolog.Logger

	apiKeyConfigured bool
	instanceID       string
	startedAt        time.Time
}

// NewHandler creates a Handler.
func NewHandler(router *dispatch.Router, registry *agents.Registry, w *world.World, logger zerolog.Logger, apiKeyConfigured bool) *Handler {
	return &Handler{
		router:           router,
		registry:         registry,
		world:            w,
		logger:           logger,
		apiKeyConfigured: apiKeyConfigured,
		instanceID:       uuid.NewString(),
		startedAt:        time.Now(),
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
