// Package stack provides a growable LIFO work-list. It backs tree
// traversal paths and non-recursive tree teardown.
package stack

// Stack is a LIFO of T. The zero value is an empty stack ready to use.
type Stack[T any] struct {
	items []T
}

// New returns an empty stack with room for capacity items.
func New[T any](capacity int) *Stack[T] {
	return &Stack[T]{items: make([]T, 0, capacity)}
}

func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top item. It panics on an empty stack.
func (s *Stack[T]) Pop() T {
	n := len(s.items)
	if n == 0 {
		panic("stack: pop from empty stack")
	}
	v := s.items[n-1]
	var zero T
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return v
}

// Top returns the top item without removing it. It panics on an empty stack.
func (s *Stack[T]) Top() T {
	if len(s.items) == 0 {
		panic("stack: top of empty stack")
	}
	return s.items[len(s.items)-1]
}

func (s *Stack[T]) Empty() bool { return len(s.items) == 0 }
func (s *Stack[T]) Len() int    { return len(s.items) }

// Reset drops all items but keeps the allocated capacity.
func (s *Stack[T]) Reset() {
	clear(s.items)
	s.items = s.items[:0]
}
