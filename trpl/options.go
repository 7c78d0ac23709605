package trpl

import (
	"fmt"

	"github.com/EthanAnro/rust-book/workers"
	"github.com/johnsiilver/calloptions"
)

type runtimeOptions struct {
	name        string
	pool        workers.Pool
	poolOptions []workers.SubmitOption
}

// RuntimeOption is an option for NewRuntime().
type RuntimeOption interface {
	runtimeOpt()
}

type joinOptions struct {
	pool        workers.Pool
	poolOptions []workers.SubmitOption
}

// JoinOption is an option for All().
type JoinOption interface {
	joinOpt()
}

// WithName registers the Runtime in the package registry under name. Names
// show up in span events and in debugging output; an unnamed Runtime stays
// out of the registry. If the name is already taken, a numeric suffix is
// added.
//
// This can be used as a:
// - RuntimeOption
func WithName(name string) interface {
	RuntimeOption
	calloptions.CallOption
} {
	return struct {
		RuntimeOption
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				switch t := a.(type) {
				case *runtimeOptions:
					t.name = name
					return nil
				}
				return fmt.Errorf("WithName can only be used as a RuntimeOption")
			},
		),
	}
}

// WithPool runs the work on pool, passing options on each Submit, instead
// of starting a goroutine per Func.
//
// This can be used as a:
// - RuntimeOption
// - JoinOption
func WithPool(pool workers.Pool, options ...workers.SubmitOption) interface {
	RuntimeOption
	JoinOption
	calloptions.CallOption
} {
	return struct {
		RuntimeOption
		JoinOption
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				switch t := a.(type) {
				case *runtimeOptions:
					t.pool = pool
					t.poolOptions = options
					return nil
				case *joinOptions:
					t.pool = pool
					t.poolOptions = options
					return nil
				}
				return fmt.Errorf("WithPool can only be used as a RuntimeOption or JoinOption")
			},
		),
	}
}
