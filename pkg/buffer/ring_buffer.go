package buffer

import "sync"

// RingBuffer is a thread-safe fixed-size history. When full, Add overwrites
// the oldest element.
type RingBuffer[T any] struct {
	mu         sync.Mutex
	buf        []T
	head, tail int64
}

// RingN creates a new RingBuffer holding at most size elements.
func RingN[T any](size int) *RingBuffer[T] {
	if size < 1 {
		size = 1
	}
	return &RingBuffer[T]{buf: make([]T, size)}
}

// Add appends t, evicting the oldest element if the buffer is full.
func (rb *RingBuffer[T]) Add(t T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	size := int64(len(rb.buf))
	rb.buf[rb.tail%size] = t
	rb.tail++
	if rb.tail-rb.head > size {
		rb.head = rb.tail - size
	}
}

// Snapshot returns a copy of the retained elements, oldest first.
func (rb *RingBuffer[T]) Snapshot() []T {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	n := rb.tail - rb.head
	out := make([]T, 0, n)
	size := int64(len(rb.buf))
	for i := rb.head; i < rb.tail; i++ {
		out = append(out, rb.buf[i%size])
	}
	return out
}

// Len returns the number of retained elements.
func (rb *RingBuffer[T]) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return int(rb.tail - rb.head)
}

// Reset forgets every element.
func (rb *RingBuffer[T]) Reset() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	clear(rb.buf)
	rb.head, rb.tail = 0, 0
}
