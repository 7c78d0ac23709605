package trpl

import (
	"context"
)

// A Func is a deferred computation that eventually produces a value. A Func
// does no work until it is driven by Run, Spawn, or one of the combinators.
//
// The context carries cancellation. A Func that may be abandoned, by Race,
// Timeout, or Runtime.Close, should watch ctx.Done() and return promptly;
// the zero value is fine when there is nothing better.
type Func[T any] func(ctx context.Context) T

// start launches fn on its own goroutine under a derived, cancelable
// context. The result channel is buffered so an abandoned fn never blocks
// delivering a value nobody will read.
func start[T any](ctx context.Context, fn Func[T]) (<-chan T, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan T, 1)

	go func() {
		out <- fn(ctx)
	}()

	return out, cancel
}
