package agentturn

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// WithTimeout races op against the deadline d and returns whichever resolves
// first: op's value, or fallback when the deadline elapses. The losing op is
// not cancelled; its eventual result is simply never observed. The boolean
// reports whether the fallback was used. Errors op returns before the
// deadline propagate unchanged; context cancellation surfaces as an error.
func WithTimeout[T any](ctx context.Context, clock clockwork.Clock, d time.Duration, fallback T, op func(context.Context) (T, error)) (T, bool, error) {
	type outcome struct {
		val T
		err error
	}

	// Buffered so the op goroutine never leaks when the deadline wins.
	ch := make(chan outcome, 1)
	go func() {
		v, err := op(ctx)
		ch <- outcome{val: v, err: err}
	}()

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case out := <-ch:
		if out.err != nil {
			return fallback, false, out.err
		}
		return out.val, false, nil
	case <-timer.Chan():
		return fallback, true, nil
	case <-ctx.Done():
		return fallback, false, ctx.Err()
	}
}
