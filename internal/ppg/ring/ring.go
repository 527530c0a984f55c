// Package ring provides a fixed-capacity circular buffer used for every
// bounded history in the PPG core.
package ring

// Buffer is a fixed-capacity FIFO. Pushing into a full buffer evicts the
// oldest element. The zero value is unusable; construct with New.
type Buffer[T any] struct {
	items []T
	head  int // index of the oldest element
	size  int
}

// New returns an empty buffer holding at most capacity elements.
// A capacity below 1 is raised to 1.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// Push appends v, evicting the oldest element when full. It reports
// whether an element was evicted.
func (b *Buffer[T]) Push(v T) bool {
	if b.size < len(b.items) {
		b.items[(b.head+b.size)%len(b.items)] = v
		b.size++
		return false
	}
	b.items[b.head] = v
	b.head = (b.head + 1) % len(b.items)
	return true
}

// Len returns the number of stored elements.
func (b *Buffer[T]) Len() int { return b.size }

// Cap returns the buffer capacity.
func (b *Buffer[T]) Cap() int { return len(b.items) }

// Full reports whether the buffer is at capacity.
func (b *Buffer[T]) Full() bool { return b.size == len(b.items) }

// At returns the i-th element, oldest first. It panics if i is out of range.
func (b *Buffer[T]) At(i int) T {
	if i < 0 || i >= b.size {
		panic("ring: index out of range")
	}
	return b.items[(b.head+i)%len(b.items)]
}

// Set replaces the i-th element, oldest first. It panics if i is out of
// range.
func (b *Buffer[T]) Set(i int, v T) {
	if i < 0 || i >= b.size {
		panic("ring: index out of range")
	}
	b.items[(b.head+i)%len(b.items)] = v
}

// Last returns the newest element and false when the buffer is empty.
func (b *Buffer[T]) Last() (T, bool) {
	var zero T
	if b.size == 0 {
		return zero, false
	}
	return b.At(b.size - 1), true
}

// Slice returns a copy of the contents, oldest first.
func (b *Buffer[T]) Slice() []T {
	return b.Tail(b.size)
}

// Tail returns a copy of the newest n elements, oldest first. n is clamped
// to the stored length.
func (b *Buffer[T]) Tail(n int) []T {
	if n > b.size {
		n = b.size
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	start := b.size - n
	for i := 0; i < n; i++ {
		out[i] = b.At(start + i)
	}
	return out
}

// DropOldest removes up to n of the oldest elements.
func (b *Buffer[T]) DropOldest(n int) {
	if n > b.size {
		n = b.size
	}
	var zero T
	for i := 0; i < n; i++ {
		b.items[b.head] = zero
		b.head = (b.head + 1) % len(b.items)
		b.size--
	}
}

// Reset empties the buffer without releasing its storage.
func (b *Buffer[T]) Reset() {
	var zero T
	for i := range b.items {
		b.items[i] = zero
	}
	b.head = 0
	b.size = 0
}
