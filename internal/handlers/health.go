package handlers

import (
	"net/http"
	"time"

	"github.com/parlor-chat/parlor/internal/dispatch"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status           string         `json:"status"`
	Instance         string         `json:"instance"`
	Timestamp        string         `json:"timestamp"`
	Router           dispatch.Stats `json:"router"`
	APIKeyConfigured bool           `json:"apiKeyConfigured"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, HealthResponse{
		Status:           "ok",
		Instance:         h.instanceID,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Router:           h.router.Stats(),
		APIKeyConfigured: h.apiKeyConfigured,
	})
}
