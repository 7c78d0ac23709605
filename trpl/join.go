package trpl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gostdlib/internals/otel/span"
	"github.com/johnsiilver/calloptions"
)

// Join runs two Funcs concurrently, waits for both, and returns both
// values in argument order. Neither is ever abandoned, so both receive ctx
// as passed. The second Func runs on the calling goroutine.
func Join[A, B any](ctx context.Context, first Func[A], second Func[B]) (A, B) {
	aCh := make(chan A, 1)
	go func() {
		aCh <- first(ctx)
	}()

	b := second(ctx)
	return <-aCh, b
}

// Join3 is Join for three Funcs.
func Join3[A, B, C any](ctx context.Context, first Func[A], second Func[B], third Func[C]) (A, B, C) {
	aCh := make(chan A, 1)
	bCh := make(chan B, 1)
	go func() {
		aCh <- first(ctx)
	}()
	go func() {
		bCh <- second(ctx)
	}()

	c := third(ctx)
	return <-aCh, <-bCh, c
}

// All runs every Func in fns concurrently and waits for all of them. The
// returned slice is in input order, not completion order. A nil or empty
// fns returns nil.
//
// Each Func gets its own goroutine unless WithPool routes them onto a
// workers.Pool, which caps how many run at once without changing the
// result.
func All[T any](ctx context.Context, fns []Func[T], options ...JoinOption) []T {
	if len(fns) == 0 {
		return nil
	}

	opts := joinOptions{}
	if err := calloptions.ApplyOptions(&opts, options); err != nil {
		panic(fmt.Sprintf("trpl: All received a bad option: %s", err))
	}

	spanner := span.Get(ctx)
	now := time.Now()
	allOTELStart(spanner, len(fns), opts.pool != nil)
	defer allOTELEnd(spanner, now)

	results := make([]T, len(fns))
	wg := sync.WaitGroup{}
	for i, fn := range fns {
		i, fn := i, fn
		wg.Add(1)
		job := func(context.Context) {
			defer wg.Done()
			results[i] = fn(ctx)
		}

		if opts.pool == nil {
			go job(ctx)
			continue
		}
		if err := opts.pool.Submit(ctx, job, opts.poolOptions...); err != nil {
			wg.Done()
			panic(fmt.Sprintf("trpl: All could not submit to pool %q: %s", opts.pool.GetName(), err))
		}
	}
	wg.Wait()

	return results
}

// allOTELStart logs the shape of the All call to the span.
func allOTELStart(spanner span.Span, n int, pooled bool) {
	if !spanner.Span.IsRecording() {
		return
	}

	spanner.Event(
		"All() waiting",
		"funcs", n,
		"using pool", pooled,
	)
}

// allOTELEnd logs completion of the All call to the span.
func allOTELEnd(spanner span.Span, t time.Time) {
	if spanner.Span.IsRecording() {
		spanner.Event("All() done", "elapsed_ns", time.Since(t))
	}
}
