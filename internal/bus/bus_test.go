package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishToTypeSubscribers(t *testing.T) {
	b := New()
	var got []Event
	b.Subscribe("chat", func(ev Event) { got = append(got, ev) })

	b.Publish(Event{Type: "chat", SourceID: "u1", Payload: "hello"})
	b.Publish(Event{Type: "other", SourceID: "u1"})

	assert.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Payload)
}

func TestTargetedDelivery(t *testing.T) {
	b := New()
	var broadcast, directed int
	b.Subscribe("poke", func(Event) { broadcast++ })
	b.Subscribe("poke:mei", func(Event) { directed++ })
	b.Subscribe("poke:nova", func(Event) { t.Error("wrong target received event") })

	b.Publish(Event{Type: "poke", SourceID: "u1", TargetID: "mei"})

	assert.Equal(t, 1, broadcast, "type subscribers always receive")
	assert.Equal(t, 1, directed, "targeted subscriber receives via composite channel")
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	count := 0
	unsub := b.Subscribe("tick", func(Event) { count++ })

	b.Publish(Event{Type: "tick"})
	unsub()
	b.Publish(Event{Type: "tick"})
	// Unsubscribing twice is harmless.
	unsub()

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestHandlerMayPublish(t *testing.T) {
	b := New()
	var echoed bool
	b.Subscribe("ping", func(ev Event) {
		b.Publish(Event{Type: "pong", SourceID: "bot"})
	})
	b.Subscribe("pong", func(Event) { echoed = true })

	b.Publish(Event{Type: "ping"})
	assert.True(t, echoed)
}

func TestSubscriberCount(t *testing.T) {
	b := New()
	b.Subscribe("a", func(Event) {})
	b.Subscribe("a", func(Event) {})
	b.Subscribe("b:x", func(Event) {})
	assert.Equal(t, 3, b.SubscriberCount())
}
