/*
Package pooled provides a worker Pool of static goroutines where you can
submit Jobs to be run by an existing goroutine instead of spinning off a new
one.

See the examples in the parent package "workers" for an overview of using
pools.
*/
package pooled

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/EthanAnro/rust-book/internal/registry"
	"github.com/EthanAnro/rust-book/workers"
	"github.com/EthanAnro/rust-book/workers/internal/submit"
	"github.com/gostdlib/internals/otel/span"
)

var _ workers.Pool = &Pool{}

// Pool is a pool of static goroutines.
type Pool struct {
	wg      sync.WaitGroup
	running atomic.Int64
	submit.Pool
	feed chan job
	size int
	name string
}

type job struct {
	ctx context.Context
	fn  workers.Job
}

// New creates a new Pool. "name" is the name of the pool which is used to
// tie OTEL events to the pool. Names must be process unique; if the name is
// taken, a unique suffix is added. If name is the empty string, the pool is
// not registered, which is useful if creating and tearing down the pool
// instead of using it for the lifetime of the program. Names cannot contain
// spaces, hyphens, or numbers. "size" is the number of resident goroutines
// that execute jobs.
func New(name string, size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("cannot have a Pool with size < 1")
	}
	if err := registry.ValidateBaseName(name); err != nil {
		return nil, err
	}

	p := &Pool{name: name, size: size, feed: make(chan job, 1)}
	for i := 0; i < size; i++ {
		go p.runner()
	}

	for {
		if err := registry.Register(p); err != nil {
			p.name = registry.NewName(p.name)
			continue
		}
		break
	}
	return p, nil
}

// Close waits for all submitted jobs to stop, then stops all goroutines.
func (p *Pool) Close() {
	p.wg.Wait()
	close(p.feed)
	registry.Unregister(p)
}

// Wait will wait for all jobs in the pool to finish. If you need to only
// wait on a subset of jobs, use a WaitGroup in your job.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Len returns the number of resident goroutines in the pool.
func (p *Pool) Len() int {
	return p.size
}

// Running returns the number of running jobs in the pool.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// GetName gets the name of the pool.
func (p *Pool) GetName() string {
	return p.name
}

// NonBlocking indicates that if a resident goroutine is not available, spin
// off a goroutine and do not block.
func NonBlocking() workers.SubmitOption {
	return func(opts *submit.Options) error {
		if opts.Kind != submit.KindStatic {
			return fmt.Errorf("cannot use pooled.NonBlocking() with a non pooled.Pool")
		}
		opts.NonBlocking = true
		return nil
	}
}

// Caller sets the name of the calling function so that traces can
// differentiate who is using the goroutines in the pool. With the
// introduction of generics, there is no way to get the name of a function
// call reliably, as generic functions are written dynamically and
// runtime.FuncForPC does not work for generics. If this is not set, we will
// use runtime.FuncForPC().
func Caller(name string) workers.SubmitOption {
	return func(opts *submit.Options) error {
		if opts.Kind != submit.KindStatic {
			return fmt.Errorf("cannot use pooled.Caller() with a non pooled.Pool")
		}
		opts.Caller = name
		return nil
	}
}

// Submit submits the job to be executed.
func (p *Pool) Submit(ctx context.Context, fn workers.Job, options ...workers.SubmitOption) error {
	spanner := span.Get(ctx)

	if fn == nil {
		err := fmt.Errorf("cannot submit a job that is nil")
		spanner.Error(err)
		return err
	}

	opts := submit.Options{Kind: submit.KindStatic}
	for _, o := range options {
		if err := o(&opts); err != nil {
			spanner.Error(err)
			return err
		}
	}

	now := time.Now()
	j := job{ctx: ctx, fn: fn}
	fcn := p.callerName(opts)

	p.wg.Add(1)
	p.running.Add(1)
	if opts.NonBlocking {
		select {
		case p.feed <- j:
		default:
			go func() {
				defer p.wg.Done()
				defer p.running.Add(-1)
				j.fn(j.ctx)
			}()
		}
		p.event(spanner, "submitted", fcn, now)
		return nil
	}

	select {
	case p.feed <- j:
	default:
		p.event(spanner, "blocking", fcn, now)
		p.feed <- j
	}
	p.event(spanner, "submitted", fcn, now)
	return nil
}

func (p *Pool) event(spanner span.Span, event, fcn string, t time.Time) {
	spanner.Event(
		"Pool.Submit() "+event,
		"pkg", "github.com/EthanAnro/rust-book/workers/pooled",
		"caller", fcn,
		"name", p.name,
		"submit_latency_ns", time.Since(t),
	)
}

// runner is used to run any job that comes in on the feed channel.
func (p *Pool) runner() {
	for j := range p.feed {
		j.fn(j.ctx)
		p.running.Add(-1)
		p.wg.Done()
	}
}

func (p *Pool) callerName(opts submit.Options) string {
	if opts.Caller != "" {
		return opts.Caller
	}

	pc, _, _, ok := runtime.Caller(2)
	details := runtime.FuncForPC(pc)
	if ok && details != nil {
		return details.Name()
	}
	return ""
}
