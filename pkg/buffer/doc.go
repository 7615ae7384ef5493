// Package buffer provides the two in-memory containers the assistant runtime
// shares between goroutines:
//
//   - Buffer: an unbounded FIFO queue. Add never blocks; Next blocks until an
//     element arrives, the buffer is closed, or the context is done. Drain
//     removes everything still queued in one step.
//
//   - RingBuffer: a fixed-size history that overwrites the oldest element
//     when full. Snapshot returns the retained elements oldest first.
//
// Example usage:
//
//	q := buffer.N[string](8)
//	q.Add("hello")
//	s, err := q.Next(ctx)
package buffer
