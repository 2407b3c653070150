package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendAndGet(t *testing.T) {
	s := NewStore(0)
	s.Append("u1", "mei", Turn{Role: RoleUser, Text: "hi"})
	s.Append("u1", "mei", Turn{Role: RoleAssistant, Text: "hello"})

	turns := s.Get("u1", "mei")
	assert.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)

	assert.Empty(t, s.Get("u1", "nova"), "pairs are independent")
	assert.Empty(t, s.Get("u2", "mei"))
}

func TestWindowTrimsOldest(t *testing.T) {
	s := NewStore(4)
	for i := 0; i < 10; i++ {
		s.Append("u1", "mei", Turn{Role: RoleUser, Text: fmt.Sprintf("msg %d", i)})
	}
	turns := s.Get("u1", "mei")
	assert.Len(t, turns, 4)
	assert.Equal(t, "msg 6", turns[0].Text)
	assert.Equal(t, "msg 9", turns[3].Text)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore(0)
	s.Append("u1", "mei", Turn{Role: RoleUser, Text: "original"})
	turns := s.Get("u1", "mei")
	turns[0].Text = "mutated"
	assert.Equal(t, "original", s.Get("u1", "mei")[0].Text)
}

func TestSize(t *testing.T) {
	s := NewStore(0)
	s.Append("u1", "mei", Turn{})
	s.Append("u1", "nova", Turn{})
	s.Append("u2", "mei", Turn{})
	assert.Equal(t, 3, s.Size())
}
