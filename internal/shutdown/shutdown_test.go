package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainRunsHandlersInOrder(t *testing.T) {
	m := NewManager(zerolog.Nop(), time.Second)

	var order []string
	m.Register("http", func(ctx context.Context) error {
		order = append(order, "http")
		return nil
	})
	m.Register("dispatch", func(ctx context.Context) error {
		order = append(order, "dispatch")
		return nil
	})
	m.Register("orchestrator", func(ctx context.Context) error {
		order = append(order, "orchestrator")
		return nil
	})

	assert.Equal(t, 0, m.drain())
	assert.Equal(t, []string{"http", "dispatch", "orchestrator"}, order)
}

func TestDrainContinuesPastFailure(t *testing.T) {
	m := NewManager(zerolog.Nop(), time.Second)

	var ran []string
	m.Register("broken", func(ctx context.Context) error {
		ran = append(ran, "broken")
		return errors.New("stuck connection")
	})
	m.Register("healthy", func(ctx context.Context) error {
		ran = append(ran, "healthy")
		return nil
	})

	assert.Equal(t, 1, m.drain())
	assert.Equal(t, []string{"broken", "healthy"}, ran, "a failed handler must not block the rest")
}

func TestDrainContextCarriesTimeout(t *testing.T) {
	m := NewManager(zerolog.Nop(), 50*time.Millisecond)

	m.Register("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	start := time.Now()
	code := m.drain()
	require.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 1, code)
}

func TestDrainNoHandlers(t *testing.T) {
	m := NewManager(zerolog.Nop(), time.Second)
	assert.Equal(t, 0, m.drain())
}
