// Package shutdown runs ordered drain handlers when the process receives
// SIGTERM or SIGINT. Handlers run sequentially in registration order; a
// second signal during drain forces an immediate non-zero exit.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// Handler drains one subsystem.
type Handler struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Manager collects drain handlers and orchestrates the shutdown sequence.
type Manager struct {
	logger   zerolog.Logger
	timeout  time.Duration
	handlers []Handler
	exit     func(code int)
}

// NewManager creates a manager. timeout bounds the whole drain sequence.
func NewManager(logger zerolog.Logger, timeout time.Duration) *Manager {
	return &Manager{
		logger:  logger.With().Str("component", "shutdown").Logger(),
		timeout: timeout,
		exit:    os.Exit,
	}
}

// Register appends a drain handler. Handlers run in registration order.
func (m *Manager) Register(name string, fn func(ctx context.Context) error) {
	m.handlers = append(m.handlers, Handler{Name: name, Fn: fn})
}

// Wait blocks until a termination signal arrives, then drains and exits
// the process: 0 when every handler succeeded, 1 otherwise.
func (m *Manager) Wait() {
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	m.logger.Info().Str("signal", sig.String()).Msg("shutting down")

	// A second signal means the operator is done waiting.
	go func() {
		<-quit
		m.logger.Error().Msg("forced shutdown")
		m.exit(1)
	}()

	m.exit(m.drain())
}

// drain runs every handler sequentially and returns the exit code.
func (m *Manager) drain() int {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	code := 0
	for _, h := range m.handlers {
		start := time.Now()
		if err := h.Fn(ctx); err != nil {
			m.logger.Error().Err(err).Str("handler", h.Name).Msg("drain handler failed")
			code = 1
			continue
		}
		m.logger.Info().Str("handler", h.Name).Dur("took", time.Since(start)).Msg("drained")
	}
	return code
}
