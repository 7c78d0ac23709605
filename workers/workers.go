/*
Package workers provides the interfaces and definitions that worker pools must
implement/use. Implementations are in sub-directories and can be used directly
without using this package.

Pools are the spawn backends of this repository: anywhere a runtime or a
combinator starts concurrent work, a Pool can be supplied to bound or reuse
the goroutines doing that work. They can also be used on their own.

Example of using a pool where errors don't matter:

	ctx := context.Background()
	p, err := pooled.New("fetchers", runtime.NumCPU())
	if err != nil {
		panic(err)
	}
	defer p.Close()

	for i := 0; i < 100; i++ {
		i := i

		p.Submit(
			ctx,
			func(ctx context.Context) {
				fmt.Println("Hello number ", i)
			},
		)
	}

	p.Wait()

Example of using a pool as the spawn backend of a runtime:

	p, err := limited.New("tasks", runtime.NumCPU())
	if err != nil {
		panic(err)
	}
	defer p.Close()

	rt, err := trpl.NewRuntime(trpl.WithPool(p))
	if err != nil {
		panic(err)
	}
	defer rt.Close()

	// Tasks spawned on rt now run on p instead of naked goroutines.

Example of collecting errors from jobs without stopping execution:

	p, err := pooled.New("gets", runtime.NumCPU())
	if err != nil {
		panic(err)
	}
	defer p.Close()

	e := workers.Errors{}

	// urls would just be some []string containing URLs.
	for _, url := range urls {
		url := url

		p.Submit(
			ctx,
			func(ctx context.Context) {
				resp, err := client.Get(url)
				if err != nil {
					e.Record(err)
					return
				}
				resp.Body.Close()
			},
		)
	}

	p.Wait()

	for _, err := range e.Errors() {
		fmt.Println("had http.Client error: ", err)
	}
*/
package workers

import (
	"context"
	"sync"

	"github.com/EthanAnro/rust-book/workers/internal/submit"
)

// Job is a job for a Pool.
type Job func(ctx context.Context)

// SubmitOption is an option for Pool.Submit().
type SubmitOption func(opts *submit.Options) error

// Pool is the minimum interface that any worker pool must implement.
type Pool interface {
	// Submit submits a Job to be run.
	Submit(ctx context.Context, job Job, options ...SubmitOption) error
	// Close closes the pool. This will call Wait() before it closes.
	Close()
	// Wait will wait for all submitted jobs to finish. This should only be
	// called if you have stopped calling Submit().
	Wait()
	// Len indicates how big the pool is.
	Len() int
	// Running returns how many jobs are currently in flight.
	Running() int
	// GetName returns the name the pool was registered under.
	GetName() string
}

// Errors is a concurrency safe way of capturing a set of errors in multiple
// goroutines.
type Errors struct {
	errors []error
	mu     sync.Mutex
}

// Record writes an error to Errors.
func (e *Errors) Record(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

// Error returns the first error received.
func (e *Errors) Error() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.errors) == 0 {
		return nil
	}
	return e.errors[0]
}

// Errors returns all errors.
func (e *Errors) Errors() []error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.errors
}
