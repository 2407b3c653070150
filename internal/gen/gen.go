// Package gen defines the generation service the orchestrator calls to
// produce AI replies, plus provider adapters under gen/anthropic and
// gen/openai. The core never talks to a provider SDK directly; it sees
// only the Service interface.
package gen

import (
	"context"
	"errors"
	"time"

	"github.com/parlor-chat/parlor/internal/history"
)

// ErrUpstream wraps any provider failure or timeout so callers can
// recognize it without depending on SDK error types.
var ErrUpstream = errors.New("gen: upstream failure")

// DefaultTimeout bounds a single generation call. The core itself never
// cancels in-flight generation; this fixed timeout is the collaborator's
// responsibility.
const DefaultTimeout = 30 * time.Second

// Request is the normalized generation input.
type Request struct {
	System      string // agent persona / system prompt
	Model       string // provider model id, empty for the adapter default
	Temperature float64
	History     []history.Turn // prior conversation, oldest first
	Text        string         // the current user message
}

// Service produces a completion for a request. Implementations must
// respect ctx cancellation.
type Service interface {
	Generate(ctx context.Context, req Request) (string, error)
	Provider() string
}

// WithTimeout wraps a Service so every call carries a fixed deadline.
type WithTimeout struct {
	Service
	Timeout time.Duration
}

// Generate calls the wrapped service under the configured deadline.
func (t WithTimeout) Generate(ctx context.Context, req Request) (string, error) {
	d := t.Timeout
	if d <= 0 {
		d = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return t.Service.Generate(ctx, req)
}
