package dedup

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlor-chat/parlor/internal/models"
)

func newTestCache() (*Cache, *time.Time) {
	now := time.Unix(1_700_000_000, 0)
	c := New(func(o *Options) {
		o.Now = func() time.Time { return now }
	})
	return c, &now
}

func TestHitWithinTTL(t *testing.T) {
	c, _ := newTestCache()
	reply := models.Reply{Text: "hi", AgentID: "mei"}
	c.Put("u1", "hello", reply)

	got, ok := c.Get("u1", "hello")
	require.True(t, ok)
	assert.Equal(t, reply, got)
}

func TestMissAfterTTL(t *testing.T) {
	c, now := newTestCache()
	c.Put("u1", "hello", models.Reply{Text: "hi"})

	*now = now.Add(61 * time.Second)
	_, ok := c.Get("u1", "hello")
	assert.False(t, ok, "expired entry must be treated as absent")
}

func TestKeyedPerUser(t *testing.T) {
	c, _ := newTestCache()
	c.Put("u1", "hello", models.Reply{Text: "for u1"})

	_, ok := c.Get("u2", "hello")
	assert.False(t, ok)
}

func TestLongTextSharesPrefixKey(t *testing.T) {
	c, _ := newTestCache()
	prefix := strings.Repeat("a", 100)
	c.Put("u1", prefix+"tail-one", models.Reply{Text: "cached"})

	// Identical first 100 characters collapse to the same key.
	got, ok := c.Get("u1", prefix+"tail-two")
	require.True(t, ok)
	assert.Equal(t, "cached", got.Text)
}

func TestSweepEvictsExpired(t *testing.T) {
	c, now := newTestCache()
	c.Put("u1", "a", models.Reply{})
	c.Put("u1", "b", models.Reply{})
	assert.Equal(t, 2, c.Size())

	*now = now.Add(2 * time.Minute)
	c.Sweep()
	assert.Equal(t, 0, c.Size())
}
