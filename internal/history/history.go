// Package history keeps a short in-memory conversation log per
// (user, agent) pair, handed to the generation layer as context. Volatile
// by design; nothing here survives a restart.
package history

import "sync"

// Role of a conversation turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one utterance in a conversation.
type Turn struct {
	Role string
	Text string
}

const defaultMaxTurns = 20

type pairKey struct{ userID, agentID string }

// Store holds conversation history, trimmed to a fixed window per pair.
// Safe for concurrent access. Returned slices are copies.
type Store struct {
	mu       sync.RWMutex
	turns    map[pairKey][]Turn
	maxTurns int
}

// NewStore creates a store keeping at most maxTurns turns per pair
// (0 uses the default of 20).
func NewStore(maxTurns int) *Store {
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &Store{turns: make(map[pairKey][]Turn), maxTurns: maxTurns}
}

// Get returns a copy of the conversation for (userID, agentID).
func (s *Store) Get(userID, agentID string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.turns[pairKey{userID, agentID}]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Append records a turn, dropping the oldest once the window is full.
func (s *Store) Append(userID, agentID string, turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{userID, agentID}
	turns := append(s.turns[key], turn)
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	s.turns[key] = turns
}

// Size reports the number of tracked conversations, for stats.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}
