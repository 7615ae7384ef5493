package buffer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrIteratorDone is returned by Next when the buffer is closed for writing
// and empty.
var ErrIteratorDone = errors.New("iterator done")

// Buffer is a thread-safe unbounded FIFO queue.
//
// Readers waiting in Next are woken by a notification channel that every Add
// signals without blocking. CloseWrite lets readers finish the queued
// elements; CloseWithError drops them and fails every pending call.
type Buffer[T any] struct {
	writeNotify chan struct{}

	mu         sync.Mutex
	closeWrite bool
	closeErr   error
	buf        []T
}

// N creates a new Buffer with an initial capacity hint of n elements.
func N[T any](n int) *Buffer[T] {
	return &Buffer[T]{
		writeNotify: make(chan struct{}, 1),
		buf:         make([]T, 0, n),
	}
}

func (b *Buffer[T]) notify() {
	select {
	case b.writeNotify <- struct{}{}:
	default:
	}
}

// Add appends t to the tail of the queue. It never blocks.
func (b *Buffer[T]) Add(t T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closeErr != nil {
		return fmt.Errorf("buffer: write to closed buffer: %w", b.closeErr)
	}
	if b.closeWrite {
		return fmt.Errorf("buffer: write to closed buffer: %w", io.ErrClosedPipe)
	}
	b.buf = append(b.buf, t)
	b.notify()
	return nil
}

// Next removes and returns the head of the queue, blocking until an element
// is available.
//
// Returns ErrIteratorDone once the buffer is closed for writing and empty,
// and ctx.Err() if the context is done first.
func (b *Buffer[T]) Next(ctx context.Context) (t T, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		if b.closeErr != nil {
			err = fmt.Errorf("buffer: read from closed buffer: %w", b.closeErr)
			return
		}
		if len(b.buf) > 0 {
			break
		}
		if b.closeWrite {
			err = ErrIteratorDone
			return
		}
		b.mu.Unlock()
		select {
		case <-b.writeNotify:
		case <-ctx.Done():
			b.mu.Lock()
			err = ctx.Err()
			return
		}
		b.mu.Lock()
	}
	var zero T
	t = b.buf[0]
	b.buf[0] = zero
	b.buf = b.buf[1:]
	if len(b.buf) > 0 && !b.closeWrite {
		// Pass the wake-up on to another waiting reader.
		b.notify()
	}
	return t, nil
}

// Drain removes every queued element and returns them in queue order.
// It is safe to call while another goroutine is blocked in Next.
func (b *Buffer[T]) Drain() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.buf) == 0 {
		return nil
	}
	out := make([]T, len(b.buf))
	copy(out, b.buf)
	clear(b.buf)
	b.buf = b.buf[:0]
	return out
}

// Len returns the number of queued elements.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

// CloseWrite stops further Adds. Readers still receive the queued elements,
// then ErrIteratorDone.
func (b *Buffer[T]) CloseWrite() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closeWrite {
		return nil
	}
	b.closeWrite = true
	close(b.writeNotify)
	return nil
}

// CloseWithError closes both ends of the buffer. Queued elements are dropped
// and every later call returns err (io.ErrClosedPipe if err is nil).
func (b *Buffer[T]) CloseWithError(err error) error {
	if err == nil {
		err = io.ErrClosedPipe
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closeErr != nil {
		return nil
	}
	b.closeErr = err
	b.buf = nil
	if !b.closeWrite {
		b.closeWrite = true
		close(b.writeNotify)
	}
	return nil
}

// Close is CloseWithError(io.ErrClosedPipe).
func (b *Buffer[T]) Close() error {
	return b.CloseWithError(io.ErrClosedPipe)
}

// Error returns the error the buffer was closed with, if any.
func (b *Buffer[T]) Error() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeErr
}
