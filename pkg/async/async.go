package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Go runs fn in its own goroutine and returns a Future for its result.
// The function is always invoked, even when ctx is already cancelled, so that
// callees get a chance to observe the cancellation themselves.
// A panic inside fn completes the Future with a *PanicError.
func Go[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.result = zero
				f.err = &PanicError{Value: r, Stack: debug.Stack()}
			}
		}()

		f.result, f.err = fn(ctx)
	}()

	return f
}

// Done returns a channel that is closed once the computation has finished.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for completion or for ctx to end, whichever happens first.
// When ctx ends first the computation keeps running in the background and
// AwaitContext returns ErrDetached joined with the context error.
// A result that is already available always wins over a finished context.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	default:
	}

	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, fmt.Errorf("%w: %w", ErrDetached, context.Cause(ctx))
	}
}

// AwaitWithTimeout waits for the asynchronous function to complete with a timeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the computation has finished without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
