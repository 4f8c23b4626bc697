package util

// Stack is a LIFO list. Pop and Peek on an empty stack return the zero value.
type Stack[T any] []T

func (s *Stack[T]) Push(item T) {
	*s = append(*s, item)
}

func (s *Stack[T]) Pop() T {
	item, ok := s.top()
	if ok {
		*s = (*s)[:len(*s)-1]
	}
	return item
}

func (s *Stack[T]) Peek() T {
	item, _ := s.top()
	return item
}

func (s *Stack[T]) top() (item T, ok bool) {
	if len(*s) == 0 {
		return item, false
	}
	return (*s)[len(*s)-1], true
}

func (s *Stack[T]) Len() int { return len(*s) }

// Clear empties the stack and releases the backing array.
func (s *Stack[T]) Clear() { *s = nil }
