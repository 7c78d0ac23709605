/*
Package limited provides a worker Pool that spins a goroutine per Submit()
but is hard limited to the number of jobs that can run at any time.

As Go has matured, goroutines have become more efficient. This type of pool
starts very fast and is only slightly slower than the static version in
the pooled package. For pools that you want to start up and tear down
quickly, this might be the best choice.

See the examples in the parent package "workers" for an overview of using
pools.
*/
package limited

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

// Pool is a worker pool with a hard cap on concurrently running jobs.
type Pool struct {
	wg      sync.WaitGroup
	running atomic.Int64
	submit.Pool
	tokens chan struct{}
	name   string
}

// New creates a new Pool. "name" is the name of the pool which is used to
// tie OTEL events to the pool. Names must be process unique; if the name is
// taken, a unique suffix is added. If name is the empty string, the pool is
// not registered, which is useful if creating and tearing down the pool
// instead of using it for the lifetime of the program. Names cannot contain
// spaces, hyphens, or numbers. "size" is the number of jobs that can execute
// concurrently.
func New(name string, size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("cannot have a Pool with size < 1")
	}
	if err := registry.ValidateBaseName(name); err != nil {
		return nil, err
	}

	p := &Pool{name: name, tokens: make(chan struct{}, size)}

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
	close(p.tokens)
	registry.Unregister(p)
}

// Wait will wait for all jobs in the pool to finish. If you need to only
// wait on a subset of jobs, use a WaitGroup in your job.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Len returns the concurrency limit of the pool.
func (p *Pool) Len() int {
	return cap(p.tokens)
}

// Running returns the number of running jobs in the pool.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// GetName gets the name of the pool.
func (p *Pool) GetName() string {
	return p.name
}

// NonBlocking indicates that if we are at our limit, we still run the job
// and it is not counted against the limit. This is useful when you want to
// keep the stats in one place but need this job to run now and don't want to
// do it naked.
func NonBlocking() workers.SubmitOption {
	return func(opts *submit.Options) error {
		if opts.Kind != submit.KindCapped {
			return fmt.Errorf("cannot use limited.NonBlocking() with a non limited.Pool")
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
		if opts.Kind != submit.KindCapped {
			return fmt.Errorf("cannot use limited.Caller() with a non limited.Pool")
		}
		opts.Caller = name
		return nil
	}
}

// Submit submits the job to be executed.
func (p *Pool) Submit(ctx context.Context, job workers.Job, options ...workers.SubmitOption) error {
	spanner := span.Get(ctx)
	if job == nil {
		err := fmt.Errorf("cannot submit a job that is nil")
		spanner.Error(err)
		return err
	}

	opts := submit.Options{Kind: submit.KindCapped}
	for _, o := range options {
		if err := o(&opts); err != nil {
			spanner.Error(err)
			return err
		}
	}

	now := time.Now()
	fcn := p.callerName(opts)

	limited := !opts.NonBlocking
	if limited {
		select {
		case p.tokens <- struct{}{}:
		default:
			p.event(spanner, "blocking", fcn, now)
			p.tokens <- struct{}{}
			p.event(spanner, "unblocking", fcn, now)
		}
	}
	p.event(spanner, "submitted", fcn, now)

	p.wg.Add(1)
	p.running.Add(1)

	go func() {
		defer p.wg.Done()
		defer p.running.Add(-1)
		if limited {
			defer func() { <-p.tokens }()
		}
		job(ctx)
	}()

	return nil
}

func (p *Pool) event(spanner span.Span, event, fcn string, t time.Time) {
	spanner.Event(
		"Pool.Submit() "+event,
		"pkg", "github.com/EthanAnro/rust-book/workers/limited",
		"caller", fcn,
		"name", p.name,
		"submit_latency_ns", time.Since(t),
	)
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
