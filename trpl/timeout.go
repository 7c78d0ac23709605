package trpl

import (
	"context"
	"fmt"
	"time"

	"github.com/gostdlib/internals/otel/span"
)

// Elapsed is the error Timeout returns when its limit lapses before the
// Func completes. It converts back to the configured limit, not to a
// measured wall-clock time, so handlers know exactly which bound was hit:
//
//	if _, err := trpl.Timeout(ctx, 50*time.Millisecond, fetch); err != nil {
//		var lapsed trpl.Elapsed
//		if errors.As(err, &lapsed) {
//			log.Printf("gave up after the %v budget", lapsed.Duration())
//		}
//	}
type Elapsed time.Duration

// Error implements error.
func (e Elapsed) Error() string {
	return fmt.Sprintf("timed out after %v", time.Duration(e))
}

// Duration returns the limit that lapsed.
func (e Elapsed) Duration() time.Duration {
	return time.Duration(e)
}

// Timeout runs fn with an upper bound on how long to wait for it. If fn
// completes within limit, its value is returned with a nil error. If the
// timer fires first, fn's context is canceled, it is abandoned the same
// way Race abandons a loser, and Timeout returns the zero value with an
// Elapsed error carrying limit.
//
// Ties go to the Func: if its result is available when the timer is
// consulted, the result wins even though the timer also fired. A limit <=
// 0 is an already-expired timer, so only a Func that completes before
// Timeout first looks can beat it.
func Timeout[T any](ctx context.Context, limit time.Duration, fn Func[T]) (T, error) {
	ch, cancel := start(ctx, fn)
	defer cancel()

	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case v := <-ch:
		return v, nil
	case <-timer.C:
		// The result may have landed as the timer fired; it wins that
		// tie.
		select {
		case v := <-ch:
			return v, nil
		default:
		}

		spanner := span.Get(ctx)
		if spanner.Span.IsRecording() {
			spanner.Event("Timeout() lapsed", "limit_ns", limit)
		}
		var zero T
		return zero, Elapsed(limit)
	}
}
