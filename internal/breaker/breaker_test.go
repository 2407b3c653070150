package breaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testClock is a manually advanced clock.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBreaker() (*Breaker, *testClock) {
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	b := New(func(o *Options) { o.Now = clock.Now })
	return b, clock
}

func TestStartsClosed(t *testing.T) {
	b, _ := newTestBreaker()
	assert.Equal(t, Closed, b.State())
	assert.True(t, b.Allow())
}

func TestOpensAfterFailureThreshold(t *testing.T) {
	b, _ := newTestBreaker()
	for i := 0; i < 4; i++ {
		b.RecordFailure()
		assert.Equal(t, Closed, b.State(), "failure %d should not open", i+1)
	}
	b.RecordFailure()
	assert.Equal(t, Open, b.State())
	assert.False(t, b.Allow())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker()
	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	b.RecordSuccess()
	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	assert.Equal(t, Closed, b.State())
}

func TestHalfOpenProbeAfterTimeout(t *testing.T) {
	b, clock := newTestBreaker()
	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	assert.False(t, b.Allow())

	clock.Advance(31 * time.Second)
	assert.True(t, b.Allow())
	assert.Equal(t, HalfOpen, b.State())
	// Probes keep flowing in half-open.
	assert.True(t, b.Allow())
}

func TestHalfOpenClosesAfterSuccesses(t *testing.T) {
	b, clock := newTestBreaker()
	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	clock.Advance(31 * time.Second)
	assert.True(t, b.Allow())

	b.RecordSuccess()
	assert.Equal(t, HalfOpen, b.State())
	b.RecordSuccess()
	assert.Equal(t, Closed, b.State())
}

func TestHalfOpenReopensOnFailure(t *testing.T) {
	b, clock := newTestBreaker()
	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	clock.Advance(31 * time.Second)
	assert.True(t, b.Allow())

	b.RecordFailure()
	assert.Equal(t, Open, b.State())
	assert.False(t, b.Allow())

	// And the open timeout restarts from the latest failure.
	clock.Advance(31 * time.Second)
	assert.True(t, b.Allow())
	assert.Equal(t, HalfOpen, b.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "CLOSED", Closed.String())
	assert.Equal(t, "OPEN", Open.String())
	assert.Equal(t, "HALF_OPEN", HalfOpen.String())
}
