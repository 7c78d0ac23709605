/*
Package trpl is a one-import support library for learning and teaching
asynchronous coordination in Go. It bundles an execution context (Runtime),
a deferred-computation type (Func), combinators over it (Race, Timeout,
Join, Join3, All), a cancelable Sleep, and an unbounded channel behind one
small, stable surface.

The package exists for two reasons:

 1. Example programs can add just one dependency and use one set of imports,
    rather than assembling an executor, a channel type, and combinators from
    however many packages those live in.

 2. The surface can stay put while the machinery underneath changes. Code
    written against this package keeps building even when the internals are
    reworked.

Nothing here is clever: a Func is just a function that is not called until
something drives it, and every combinator is ordinary goroutine-and-select
coordination. That is the point. The library gives those patterns a named
home so example code can focus on using them.

# Driving a Func

Run drives one Func on a brand-new Runtime and tears the Runtime down
before returning:

	answer := trpl.Run(func(ctx context.Context) int {
		return 42
	})
	fmt.Println(answer) // 42

Every Run call gets a fresh Runtime. Nothing carries over between calls:
not spawned tasks, not the root Context, nothing.

# Spawning tasks and passing messages

Inside a driven Func, Spawn starts more work and Channel carries values
between goroutines without ever blocking the sender:

	trpl.Run(func(ctx context.Context) struct{} {
		tx, rx := trpl.Channel[string]()

		trpl.Spawn(ctx, func(ctx context.Context) struct{} {
			defer tx.Close()
			for _, s := range []string{"hi", "from", "the", "task"} {
				tx.Send(s)
				trpl.Sleep(ctx, 100*time.Millisecond)
			}
			return struct{}{}
		})

		for {
			v, err := rx.Recv(ctx)
			if err != nil {
				break
			}
			fmt.Println(v)
		}
		return struct{}{}
	})

# Racing and timing out

Race returns whichever of two Funcs finishes first, tagged Left or Right;
Timeout bounds one Func with a duration:

	winner := trpl.Race(ctx,
		func(ctx context.Context) string { trpl.Sleep(ctx, time.Second); return "slow" },
		func(ctx context.Context) string { return "fast" },
	)
	// winner == trpl.Right[string, string]("fast")

	v, err := trpl.Timeout(ctx, 50*time.Millisecond, slowFetch)
	if err != nil {
		var lapsed trpl.Elapsed
		errors.As(err, &lapsed)
		// lapsed.Duration() is exactly the 50ms that was configured.
	}

The loser of a Race (and a timed-out Func) is abandoned, not killed: its
context is canceled and nobody waits for it. Funcs that hold resources
should release them on the way out via defer, as usual.
*/
package trpl
