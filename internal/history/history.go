package history

import "iter"

// History is a FIFO window holding at most Cap() samples, or every sample
// when the capacity is not positive.
type History[T any] struct {
	buf      []T
	head     int
	n        int
	capacity int
}

func New[T any](capacity int) *History[T] {
	h := &History[T]{capacity: capacity}
	if capacity > 0 {
		h.buf = make([]T, capacity)
	}
	return h
}

// Bounded reports whether the window evicts old samples.
func (h *History[T]) Bounded() bool { return h.capacity > 0 }

// Cap returns the configured capacity. Values <= 0 mean unbounded.
func (h *History[T]) Cap() int { return h.capacity }

func (h *History[T]) Len() int { return h.n }

// Push appends v, evicting the oldest sample when the window is full.
func (h *History[T]) Push(v T) {
	if !h.Bounded() {
		h.buf = append(h.buf, v)
		h.n++
		return
	}

	if h.n < h.capacity {
		h.buf[(h.head+h.n)%h.capacity] = v
		h.n++
		return
	}

	h.buf[h.head] = v
	h.head = (h.head + 1) % h.capacity
}

func (h *History[T]) at(i int) T {
	if !h.Bounded() {
		return h.buf[i]
	}
	return h.buf[(h.head+i)%h.capacity]
}

// All iterates the window from oldest to newest.
func (h *History[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < h.n; i++ {
			if !yield(h.at(i)) {
				return
			}
		}
	}
}

// Values returns a copy of the window in insertion order.
func (h *History[T]) Values() []T {
	out := make([]T, 0, h.n)
	for v := range h.All() {
		out = append(out, v)
	}
	return out
}

func (h *History[T]) Clear() {
	clear(h.buf)
	if !h.Bounded() {
		h.buf = h.buf[:0]
	}
	h.head = 0
	h.n = 0
}

// Sum adds up every sample in the window.
func Sum(h *History[float64]) float64 {
	sum := 0.0
	for v := range h.All() {
		sum += v
	}
	return sum
}
