package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_SetNotifiesAfterSwap(t *testing.T) {
	s := NewSignal("a")
	var seen []string
	s.Subscribe(func() { seen = append(seen, s.Get()) })

	s.Set("b")
	s.Set("c")

	assert.Equal(t, "c", s.Get())
	assert.Equal(t, []string{"b", "c"}, seen)
}

func TestSignal_Unsubscribe(t *testing.T) {
	s := NewSignal(0)
	var first, second int
	unsubFirst := s.Subscribe(func() { first++ })
	s.Subscribe(func() { second++ })

	s.Set(1)
	unsubFirst()
	unsubFirst()
	s.Set(2)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}
