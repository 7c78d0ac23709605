package trpl

import (
	"context"
	"errors"

	"github.com/EthanAnro/rust-book/trpl/internal/queue"
)

var (
	// ErrClosed is returned by Send once Close has been called, and by
	// Recv and TryRecv once the channel is both closed and drained.
	ErrClosed = errors.New("trpl: channel is closed")

	// ErrEmpty is returned by TryRecv when nothing is buffered right now.
	ErrEmpty = errors.New("trpl: channel is empty")
)

// Channel creates an unbounded channel and returns its two halves. Any
// number of goroutines may share the Sender; the Receiver is meant for one
// consuming goroutine. There is no capacity to choose and no way for
// construction to fail, which also means no backpressure: a Sender can
// outrun its Receiver without ever blocking, and the buffer just grows.
func Channel[T any]() (*Sender[T], *Receiver[T]) {
	q := queue.New[T]()
	return &Sender[T]{q: q}, &Receiver[T]{q: q}
}

// Sender is the producing half of a Channel.
type Sender[T any] struct {
	q *queue.Queue[T]
}

// Send appends v to the channel's buffer. It never blocks. It returns
// ErrClosed once Close has been called; as with Go's own channels, finish
// all Send calls before closing.
func (s *Sender[T]) Send(v T) error {
	if !s.q.Push(v) {
		return ErrClosed
	}
	return nil
}

// Close marks the channel complete. Buffered values remain receivable;
// once they drain, Recv and TryRecv report ErrClosed. Close is idempotent.
func (s *Sender[T]) Close() {
	s.q.Close()
}

// Receiver is the consuming half of a Channel. Values arrive in the order
// they were sent.
type Receiver[T any] struct {
	q *queue.Queue[T]
}

// Recv returns the next value, blocking until one is available. When the
// channel is closed and drained it returns ErrClosed; when ctx ends first
// it returns ctx.Err(). Buffered values are always delivered before the
// close is reported.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	for {
		if v, ok := r.q.Pop(); ok {
			return v, nil
		}
		if r.q.Closed() {
			// A value sent just before the close may have landed
			// between the Pop and the Closed read; drain it first.
			if v, ok := r.q.Pop(); ok {
				return v, nil
			}
			r.q.Signal()
			var zero T
			return zero, ErrClosed
		}

		select {
		case <-r.q.Wake():
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryRecv returns the next value without blocking. It returns ErrEmpty
// when nothing is buffered, or ErrClosed when the channel is closed and
// drained.
func (r *Receiver[T]) TryRecv() (T, error) {
	if v, ok := r.q.Pop(); ok {
		return v, nil
	}
	var zero T
	if r.q.Closed() {
		if v, ok := r.q.Pop(); ok {
			return v, nil
		}
		return zero, ErrClosed
	}
	return zero, ErrEmpty
}

// Len reports how many values are buffered right now.
func (r *Receiver[T]) Len() int {
	return r.q.Len()
}
