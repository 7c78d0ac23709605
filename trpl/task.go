package trpl

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/gostdlib/internals/otel/span"
	"go.opentelemetry.io/otel/codes"
)

// Task is a handle to a Func that Spawn set running. Await collects the
// value, Cancel abandons the work, Done exposes completion to a select.
// The zero value is not usable; Tasks come from Spawn.
type Task[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}

	// val and panicked are written once by the task goroutine before done
	// is closed, and read only after done is closed.
	val      T
	panicked *PanicError
}

// PanicError is returned by Task.Await when the Func panicked. The panic
// is caught on the task's goroutine, so it surfaces where the value was
// wanted instead of crashing the process from a goroutine nobody owns.
type PanicError struct {
	// Value is the value the Func panicked with.
	Value any
	// Stack is the stack of the panicking goroutine, as captured by
	// debug.Stack().
	Stack []byte
}

// Error implements error.
func (p *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v\n\n%s", p.Value, p.Stack)
}

// Spawn sets fn running and returns a handle to it. Spawn does not block;
// the returned Task's Await does.
//
// ctx must descend from a Runtime's Context. The ctx that Run or RunOn
// passes into its Func qualifies, as does anything derived from it. Spawn
// panics when no Runtime is present, since spawning outside an execution
// context is a programming error with no sane fallback.
//
// fn receives a context derived from the Runtime's root Context, not from
// ctx: tasks belong to the Runtime that runs them, so Runtime.Close
// cancels them all, however deep the Spawn that made them. Task.Cancel
// cancels just the one.
//
// The task runs on the Runtime's pool when one was configured with
// WithPool, otherwise on its own goroutine.
func Spawn[T any](ctx context.Context, fn Func[T]) *Task[T] {
	r, ok := ctx.Value(runtimeKey{}).(*Runtime)
	if !ok {
		panic("trpl: Spawn called on a Context with no Runtime; use the ctx provided by Run or RunOn")
	}

	tctx, cancel := context.WithCancel(r.Context())
	t := &Task[T]{cancel: cancel, done: make(chan struct{})}

	run := func(context.Context) {
		defer r.wg.Done()
		defer close(t.done)
		defer func() {
			if v := recover(); v != nil {
				t.panicked = &PanicError{Value: v, Stack: debug.Stack()}
			}
		}()
		t.val = fn(tctx)
	}

	now := time.Now()
	r.wg.Add(1)
	if r.pool != nil {
		if err := r.pool.Submit(tctx, run, r.poolOptions...); err != nil {
			r.wg.Done()
			cancel()
			panic(fmt.Sprintf("trpl: Spawn could not submit to pool %q: %s", r.pool.GetName(), err))
		}
	} else {
		go run(tctx)
	}

	spanner := span.Get(ctx)
	if spanner.Span.IsRecording() {
		spanner.Event(
			"Spawn() task started",
			"pkg", "github.com/EthanAnro/rust-book/trpl",
			"runtime", r.GetName(),
			"pooled", r.pool != nil,
			"spawn_latency_ns", time.Since(now),
		)
	}
	return t
}

// Await blocks until the task completes and returns its value. If ctx ends
// first, Await returns the zero value and ctx.Err(); the task keeps
// running and Await can be called again. If the Func panicked, Await
// returns a *PanicError.
//
// A canceled task is not an error here: after Cancel, the Func still runs
// to a return (typically the zero value, once it observes ctx.Done()) and
// that is the value Await reports.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	now := time.Now()

	select {
	case <-t.done:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}

	spanner := span.Get(ctx)
	if t.panicked != nil {
		if spanner.Span.IsRecording() {
			spanner.Status(codes.Error, t.panicked.Error())
		}
		var zero T
		return zero, t.panicked
	}
	t.otelDone(spanner, now)
	return t.val, nil
}

// Cancel cancels the task's context. Cancellation is cooperative: the Func
// keeps running until it notices ctx.Done() and returns, and Await still
// reports whatever it returns.
func (t *Task[T]) Cancel() {
	t.cancel()
}

// Done returns a channel that closes when the task has finished, for use
// in a select. Await is still the way to get the value.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// otelDone records the task's result on the awaiting side's span.
func (t *Task[T]) otelDone(spanner span.Span, started time.Time) {
	if !spanner.Span.IsRecording() {
		return
	}
	j, err := json.Marshal(t.val)
	if err != nil {
		j = []byte(fmt.Sprintf("Error marshaling value: %s", err))
	}
	spanner.Event(
		"Await() task done",
		"value", string(j),
		"await_latency_ns", time.Since(started),
	)
}
