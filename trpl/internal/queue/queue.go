// Package queue provides the unbounded FIFO that backs the channel type.
// Push never blocks and Pop never blocks; a caller that wants to block waits
// on Wake() and then retries Pop(). That keeps the blocking policy (and
// context handling) out of this package.
package queue

import (
	"sync/atomic"
)

// Queue is a simple generic queue that uses a lock free linked list.
type Queue[T any] struct {
	list *simple[T]

	length atomic.Int64
	closed atomic.Bool

	// wake holds at most one pending wakeup. Push and Close do a
	// non-blocking send, a consumer receives and retries Pop. A stale
	// wakeup only costs the consumer one extra loop.
	wake chan struct{}
}

// New creates a new Queue. There is no size limit.
func New[T any]() *Queue[T] {
	return &Queue[T]{list: newSimple[T](), wake: make(chan struct{}, 1)}
}

// Push adds an entry to the queue. It reports false once Close() has been
// called. Like Go's own channels, pushing concurrently with Close() is a
// mistake on the caller's part: finish all Push() calls before closing.
func (q *Queue[T]) Push(v T) bool {
	if q.closed.Load() {
		return false
	}
	q.list.push(v)
	q.length.Add(1)
	q.Signal()
	return true
}

// Pop pops the next value off the Queue. It never blocks; ok is false when
// the queue is currently empty.
func (q *Queue[T]) Pop() (val T, ok bool) {
	v, ok := q.list.pop()
	if ok {
		q.length.Add(-1)
	}
	return v, ok
}

// Close closes the queue. Values already pushed can still be popped.
// Close is idempotent.
func (q *Queue[T]) Close() {
	if q.closed.CompareAndSwap(false, true) {
		q.Signal()
	}
}

// Closed reports whether Close() has been called.
func (q *Queue[T]) Closed() bool {
	return q.closed.Load()
}

// Len returns the number of values currently buffered.
func (q *Queue[T]) Len() int {
	return int(q.length.Load())
}

// Wake returns the channel a consumer should receive from after a failed
// Pop(). A receive means "something may have changed, try again": either a
// value arrived or the queue closed.
func (q *Queue[T]) Wake() <-chan struct{} {
	return q.wake
}

// Signal posts a wakeup if none is pending. A consumer that consumes a
// wakeup and then finds the queue closed should call this so any other
// blocked consumer sees the close too.
func (q *Queue[T]) Signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// simple is a simple lock free queue using atomic.Pointer.
type simple[T any] struct {
	head  atomic.Pointer[node[T]]
	tail  atomic.Pointer[node[T]]
	dummy node[T]
}

func newSimple[T any]() *simple[T] {
	var s simple[T]
	s.head.Store(&s.dummy)
	s.tail.Store(s.head.Load())
	return &s
}

func (s *simple[T]) pop() (T, bool) {
	for {
		h := s.head.Load()
		n := h.next.Load()
		if n == nil {
			var zero T
			return zero, false
		}
		if s.head.CompareAndSwap(h, n) {
			return n.val, true
		}
	}
}

func (s *simple[T]) push(val T) {
	n := &node[T]{val: val}
	for {
		t := s.tail.Load()
		if t.next.CompareAndSwap(nil, n) {
			s.tail.Store(n)
			return
		}
	}
}

type node[T any] struct {
	val  T
	next atomic.Pointer[node[T]]
}
