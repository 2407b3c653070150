package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/parlor-chat/parlor/internal/dispatch"
	"github.com/parlor-chat/parlor/internal/models"
	"github.com/parlor-chat/parlor/internal/orchestrator"
)

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	Text       string `json:"text"`
	UserID     string `json:"userId"`
	AgentID    string `json:"agentId,omitempty"`
	Attachment string `json:"attachment,omitempty"`
}

// ChatResponse is the POST /api/chat reply body.
type ChatResponse struct {
	Text      string    `json:"text"`
	AgentID   string    `json:"agentId"`
	Timestamp time.Time `json:"timestamp"`
	Emote     string    `json:"emote,omitempty"`
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		h.Error(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	reply, err := h.router.Receive(r.Context(), models.Message{
		Text:       req.Text,
		UserID:     req.UserID,
		AgentID:    req.AgentID,
		Attachment: req.Attachment,
	}, 0)
	if err != nil {
		h.chatError(w, err)
		return
	}

	h.JSON(w, http.StatusOK, ChatResponse{
		Text:      reply.Text,
		AgentID:   reply.AgentID,
		Timestamp: reply.Timestamp,
		Emote:     reply.Emote,
	})
}

// chatError maps dispatch errors onto status codes.
func (h *Handler) chatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dispatch.ErrInvalid):
		h.Error(w, http.StatusBadRequest, "message rejected")
	case errors.Is(err, dispatch.ErrRateLimited):
		h.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
	case errors.Is(err, dispatch.ErrShuttingDown):
		h.Error(w, http.StatusServiceUnavailable, "server is shutting down")
	case errors.Is(err, dispatch.ErrBusy):
		h.Error(w, http.StatusServiceUnavailable, "server is overloaded")
	case errors.Is(err, orchestrator.ErrAgentNotFound):
		h.Error(w, http.StatusInternalServerError, "agent not found")
	default:
		h.logger.Error().Err(err).Msg("chat request failed")
		h.Error(w, http.StatusInternalServerError, "internal error")
	}
}
