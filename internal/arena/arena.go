// Package arena implements the bump allocator shared by the AST, type,
// and symbol models. Every record handed out by the arena lives until
// the compiler process exits; nothing is ever freed individually.
package arena

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is a generic typed bump allocator. Index 0 is reserved to mean
// "no value" so IDs double as optional references without a separate
// validity flag.
type Arena[T any] struct {
	data []*T
}

// New creates an Arena with capHint pre-reserved slots. capHint is only
// a hint; zero is fine.
func New[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]*T, 0, capHint)}
}

// Alloc appends value and returns its 1-based index.
func (a *Arena[T]) Alloc(value T) uint32 {
	elem := new(T)
	*elem = value
	a.data = append(a.data, elem)
	return a.Len()
}

// Get returns a pointer to the element at the given 1-based index, or
// nil for index 0.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return a.data[index-1]
}

// Len returns the number of allocated elements.
func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena: length overflow: %w", err))
	}
	return n
}

// All iterates every live element in allocation order.
func (a *Arena[T]) All(yield func(index uint32, value *T) bool) {
	for i, p := range a.data {
		idx, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			panic(fmt.Errorf("arena: index overflow: %w", err))
		}
		if !yield(idx, p) {
			return
		}
	}
}
