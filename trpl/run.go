package trpl

import (
	"context"
	"fmt"
	"sync"

	"github.com/EthanAnro/rust-book/internal/registry"
	"github.com/EthanAnro/rust-book/workers"
	"github.com/johnsiilver/calloptions"
)

// runtimeKey carries the owning *Runtime in a Context, which is how Spawn
// finds it.
type runtimeKey struct{}

// Runtime is an execution context. It owns a root Context, tracks every
// Task spawned through it, and optionally runs those Tasks on a
// workers.Pool. Runtimes are independent of each other; there is no
// process-wide default and nothing is shared between them.
//
// Most code never touches a Runtime directly: Run makes one, uses it, and
// closes it. Construct one with NewRuntime when Tasks must outlive a single
// Run call or when Run's construction cost matters.
type Runtime struct {
	name   string
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	pool        workers.Pool
	poolOptions []workers.SubmitOption

	mu     sync.Mutex // guards closed
	closed bool
}

// NewRuntime constructs an independent execution context.
func NewRuntime(options ...RuntimeOption) (*Runtime, error) {
	opts := runtimeOptions{}
	if err := calloptions.ApplyOptions(&opts, options); err != nil {
		return nil, err
	}
	if err := registry.ValidateBaseName(opts.name); err != nil {
		return nil, err
	}

	r := &Runtime{
		name:        opts.name,
		pool:        opts.pool,
		poolOptions: opts.poolOptions,
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.ctx = context.WithValue(ctx, runtimeKey{}, r)
	r.cancel = cancel

	for {
		if err := registry.Register(r); err != nil {
			r.name = registry.NewName(r.name)
			continue
		}
		break
	}
	return r, nil
}

// Context returns the Runtime's root Context. It carries the Runtime, so
// Spawn works on it and on anything derived from it. It is canceled by
// Close.
func (r *Runtime) Context() context.Context {
	return r.ctx
}

// GetName returns the name of the Runtime, or "" if it was not named.
func (r *Runtime) GetName() string {
	return r.name
}

// Close shuts the Runtime down. The root Context is canceled, every Task
// spawned through the Runtime is waited for, and the registry entry is
// released. Tasks observe the cancellation through their contexts; ones
// that ignore it delay Close until they return. Close is idempotent, but
// spawning while Close runs is a mistake.
func (r *Runtime) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
	registry.Unregister(r)
}

// Run drives a single Func to completion and returns its value. This is
// the entry point of the package: hand it the whole asynchronous portion of
// the program as one Func and it blocks until that Func returns.
//
// Every call constructs its own Runtime and closes it before returning, so
// nothing leaks from one Run into the next: Tasks spawned inside do not
// survive, and the Context handed to fn is fresh each time. That favors
// predictability over cheap repeated invocation; callers that Run in a loop
// and care about the setup cost should hold a Runtime from NewRuntime and
// use RunOn.
//
// Run panics if the Runtime cannot be constructed, which cannot happen
// without options in play. NewRuntime plus RunOn is the error-returning
// path.
func Run[T any](fn Func[T]) T {
	r, err := NewRuntime()
	if err != nil {
		panic(fmt.Sprintf("trpl: Run could not construct a Runtime: %s", err))
	}
	defer r.Close()

	return RunOn(r, fn)
}

// RunOn drives fn on an existing Runtime and returns its value. The
// Runtime stays open; closing it remains the caller's job.
func RunOn[T any](r *Runtime, fn Func[T]) T {
	return fn(r.Context())
}
