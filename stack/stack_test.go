package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackLIFO(t *testing.T) {
	var s Stack[int]
	require.True(t, s.Empty())

	for i := 1; i <= 5; i++ {
		s.Push(i)
	}
	require.Equal(t, 5, s.Len())
	assert.Equal(t, 5, s.Top())

	for want := 5; want >= 1; want-- {
		assert.Equal(t, want, s.Pop())
	}
	assert.True(t, s.Empty())
}

func TestStackReset(t *testing.T) {
	s := New[*int](4)
	for i := 0; i < 10; i++ {
		v := i
		s.Push(&v)
	}
	c := cap(s.items)
	s.Reset()
	assert.True(t, s.Empty())
	assert.Equal(t, c, cap(s.items))
	// Reset must not keep references alive in the backing array.
	for _, p := range s.items[:c] {
		assert.Nil(t, p)
	}
}

func TestStackPopEmptyPanics(t *testing.T) {
	var s Stack[string]
	assert.Panics(t, func() { s.Pop() })
	assert.Panics(t, func() { s.Top() })
}
