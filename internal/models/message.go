package models

import "time"

// Message is a user-originated chat message. Immutable once submitted;
// the router and orchestrator only ever read it.
type Message struct {
	Text       string `json:"text"`
	UserID     string `json:"userId"`
	AgentID    string `json:"agentId,omitempty"`    // empty means "default agent"
	Attachment string `json:"attachment,omitempty"` // opaque reference, passed through
}

// Reply is an agent's answer to a Message.
type Reply struct {
	Text      string    `json:"text"`
	AgentID   string    `json:"agentId"`
	Timestamp time.Time `json:"timestamp"`
	Emote     string    `json:"emote,omitempty"`
}
