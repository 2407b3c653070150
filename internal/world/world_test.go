package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlor-chat/parlor/internal/bus"
)

func newTestWorld(t *testing.T) (*World, *bus.Bus) {
	t.Helper()
	b := bus.New()
	w := New(b)
	rooms := []struct {
		id    string
		exits []string
	}{
		{"lounge", []string{"hall"}},
		{"hall", []string{"lounge", "garden"}},
		{"garden", []string{"hall"}},
	}
	for _, r := range rooms {
		e := NewEntity(b, r.id, KindRoom, r.id, "")
		require.NoError(t, w.AddRoom(NewRoom(e, r.exits...)))
	}
	require.NoError(t, w.Validate())
	return w, b
}

func TestValidateRejectsDanglingExit(t *testing.T) {
	b := bus.New()
	w := New(b)
	e := NewEntity(b, "attic", KindRoom, "Attic", "")
	require.NoError(t, w.AddRoom(NewRoom(e, "basement")))

	err := w.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dangling exit")
}

func TestDuplicateRoomRejected(t *testing.T) {
	w, b := newTestWorld(t)
	e := NewEntity(b, "lounge", KindRoom, "Lounge Again", "")
	assert.Error(t, w.AddRoom(NewRoom(e)))
}

func TestCyclicGraphIsFine(t *testing.T) {
	// lounge <-> hall is already a cycle; Validate accepted it in setup.
	w, _ := newTestWorld(t)
	r, ok := w.GetRoom("lounge")
	require.True(t, ok)
	assert.Equal(t, []string{"hall"}, r.Exits())
}

func TestPlaceMovesOccupant(t *testing.T) {
	w, b := newTestWorld(t)
	e := NewEntity(b, "mei", KindBot, "Mei", "")
	w.Register(e)

	require.NoError(t, w.Place("mei", "lounge"))
	lounge, _ := w.GetRoom("lounge")
	assert.Equal(t, []string{"mei"}, lounge.Occupants())

	require.NoError(t, w.Place("mei", "garden"))
	assert.Empty(t, lounge.Occupants())
	garden, _ := w.GetRoom("garden")
	assert.Equal(t, []string{"mei"}, garden.Occupants())

	assert.Error(t, w.Place("mei", "nowhere"))
}

func TestListRooms(t *testing.T) {
	w, _ := newTestWorld(t)
	require.NoError(t, w.Place("a", "hall"))
	require.NoError(t, w.Place("b", "hall"))

	summaries := w.ListRooms()
	assert.Len(t, summaries, 3)
	byID := map[string]RoomSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}
	assert.Equal(t, 2, byID["hall"].Occupants)
	assert.Equal(t, 0, byID["garden"].Occupants)
}

func TestRoomAnnouncesMovement(t *testing.T) {
	w, b := newTestWorld(t)
	var entered []string
	b.Subscribe("room.entered:lounge", func(ev bus.Event) {
		entered = append(entered, ev.Payload.(string))
	})

	require.NoError(t, w.Place("mei", "lounge"))
	assert.Equal(t, []string{"mei"}, entered)
}

func TestEntityDestroyReleasesSubscriptions(t *testing.T) {
	b := bus.New()
	e := NewEntity(b, "mei", KindBot, "Mei", "quiet caretaker")
	count := 0
	e.Subscribe("tick", func(bus.Event) { count++ })
	e.SubscribeSelf("poke", func(bus.Event) { count++ })
	assert.Equal(t, 2, b.SubscriberCount())

	b.Publish(bus.Event{Type: "tick"})
	b.Publish(bus.Event{Type: "poke", TargetID: "mei"})
	assert.Equal(t, 2, count)

	e.Destroy()
	assert.Equal(t, 0, b.SubscriberCount())
	b.Publish(bus.Event{Type: "tick"})
	assert.Equal(t, 2, count)
}

func TestEntityInspect(t *testing.T) {
	b := bus.New()
	assert.Equal(t, "Mei: caretaker", NewEntity(b, "mei", KindBot, "Mei", "caretaker").Inspect())
	assert.Equal(t, "Mei", NewEntity(b, "mei", KindBot, "Mei", "").Inspect())
}
