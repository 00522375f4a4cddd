// Package async provides a small generic Future used to await computations
// that may block for an arbitrary amount of time.
//
// Go starts the supplied function in its own goroutine and immediately returns
// a *Future. The caller can then wait with Await, bound the wait with
// AwaitWithTimeout, stop waiting when a context ends with AwaitContext, or poll
// with IsComplete.
//
// AwaitContext is the building block for "external cancellation": the caller
// stops waiting as soon as its context is cancelled, while the computation is
// left to finish on its own. This mirrors how the machine run-loop awaits the
// suspending Entry and Exit hooks of a state.
//
// # Usage
//
//	future := async.Go(ctx, func(ctx context.Context) (string, error) {
//	    return fetch(ctx)
//	})
//
//	value, err := future.AwaitContext(ctx)
//	if errors.Is(err, async.ErrDetached) {
//	    // ctx ended first; fetch is still running
//	}
//
// # Error Handling
//
// Panics inside the computation are recovered and reported as *PanicError so
// that a misbehaving callee never takes the whole process down:
//
//	if async.IsPanicError(err) { /* ... */ }
package async
