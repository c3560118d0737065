package rewrite

// Stack is a LIFO of scratch frames. Push returns the matching release,
// meant to be deferred, so frames are popped on every exit path.
type Stack[T any] struct {
	items []T
}

// Push adds v and returns a function that pops it again. Releasing out of
// order is a contract violation.
func (s *Stack[T]) Push(v T) (release func()) {
	s.items = append(s.items, v)
	depth := len(s.items)
	released := false
	return func() {
		if released {
			return
		}
		released = true
		if len(s.items) != depth {
			Violationf("scratch stack released out of order: depth %d, want %d", len(s.items), depth)
		}
		var zero T
		s.items[depth-1] = zero
		s.items = s.items[:depth-1]
	}
}

// Top returns the innermost frame.
func (s *Stack[T]) Top() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// TopPtr returns a pointer to the innermost frame, nil when empty.
func (s *Stack[T]) TopPtr() *T {
	if len(s.items) == 0 {
		return nil
	}
	return &s.items[len(s.items)-1]
}

func (s *Stack[T]) Len() int { return len(s.items) }

// At returns frame i counting from the bottom.
func (s *Stack[T]) At(i int) *T {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return &s.items[i]
}

// Find returns the innermost frame satisfying pred.
func (s *Stack[T]) Find(pred func(*T) bool) *T {
	for i := len(s.items) - 1; i >= 0; i-- {
		if pred(&s.items[i]) {
			return &s.items[i]
		}
	}
	return nil
}
