package trpl

import (
	"context"
)

// Race runs two Funcs concurrently and returns the value of whichever
// completes first: Left wrapping the first argument's value, or Right
// wrapping the second's.
//
// The loser is abandoned. Its context is canceled, nobody waits for it,
// and its eventual return value is thrown away. Cleanup it owes is its own
// business, via defer as usual. Losing is not an error, which is why Race
// has no error return.
//
// Ties go to the first argument: whenever Race observes both results
// available at the moment it decides, it returns Left. Otherwise the
// earlier arrival wins.
func Race[A, B any](ctx context.Context, first Func[A], second Func[B]) Either[A, B] {
	aCh, aCancel := start(ctx, first)
	bCh, bCancel := start(ctx, second)
	defer aCancel()
	defer bCancel()

	select {
	case a := <-aCh:
		return Left[A, B](a)
	case b := <-bCh:
		// Both may have been ready when the select fired; the first
		// argument takes that tie.
		select {
		case a := <-aCh:
			return Left[A, B](a)
		default:
		}
		return Right[A, B](b)
	}
}
