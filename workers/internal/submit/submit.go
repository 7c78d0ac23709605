// Package submit holds the options shared by every Pool implementation's
// Submit() call. It is internal so that the option surface can change without
// breaking the public packages.
package submit

// Kind identifies which Pool implementation an option is meant for.
type Kind uint8

const (
	KindUnknown Kind = 0
	KindCapped  Kind = 1
	KindStatic  Kind = 2
)

// Options is the resolved set of options for a single Submit() call.
type Options struct {
	// Caller is a name of the supposed calling function so that traces can
	// differentiate who is using the goroutines in the pool.
	Caller string
	// Kind is the kind of pool this option is meant for.
	Kind Kind
	// NonBlocking indicates this call is non-blocking, which means that if
	// the pool does not have capacity it spins off a naked goroutine.
	NonBlocking bool
}

// Preventer keeps Pool implementations inside this module.
type Preventer interface {
	pool()
}

// Pool implements Preventer. Embed it in a Pool implementation.
type Pool struct{}

//lint:ignore U1000 This is for internal use only.
func (p *Pool) pool() {}
