package trpl

import (
	"context"
	"time"
)

// Sleep pauses the calling goroutine for d, or until ctx is done,
// whichever comes first. Unlike time.Sleep it can be cancelled, which is
// what lets Race, Timeout, and Runtime.Close abandon sleeping work without
// waiting out the nap. A d <= 0 returns immediately.
func Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
