package gen

import (
	"context"
	"fmt"
	"sync"
)

// Mock is an in-memory Service for tests. Canned responses are matched by
// the request text; unmatched requests echo the input. Fail switches every
// call to an upstream failure.
type Mock struct {
	mu        sync.Mutex
	responses map[string]string
	calls     int
	fail      bool
	provider  string
}

// NewMock creates a mock for the given provider name.
func NewMock(provider string) *Mock {
	return &Mock{responses: make(map[string]string), provider: provider}
}

// AddResponse registers a canned completion for an input text.
func (m *Mock) AddResponse(text, response string) {
	m.mu.Lock()
	m.responses[text] = response
	m.mu.Unlock()
}

// SetFail makes subsequent calls fail with ErrUpstream.
func (m *Mock) SetFail(fail bool) {
	m.mu.Lock()
	m.fail = fail
	m.mu.Unlock()
}

// Calls reports how many times Generate ran.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Generate implements Service.
func (m *Mock) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return "", fmt.Errorf("%w: mock failure", ErrUpstream)
	}
	if resp, ok := m.responses[req.Text]; ok {
		return resp, nil
	}
	return "echo: " + req.Text, nil
}

// Provider implements Service.
func (m *Mock) Provider() string { return m.provider }
