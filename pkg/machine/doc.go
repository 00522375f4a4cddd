// Package machine runs a set of registered states one at a time, driven by a
// FIFO queue of transition requests.
//
// Each state implements State. When a transition is dequeued the machine calls
// Setup with the transition's parameters, then Entry, then waits until another
// transition is queued or exit is requested, then calls Exit and CleanUp. Every
// executed transition is recorded in a history stack for back-navigation.
//
// # Usage
//
//	type menu struct{ machine.BaseState }
//
//	func (s *menu) Entry(ctx context.Context) error {
//	    return s.Machine().Enqueue("game", 1)
//	}
//
//	m := machine.New(machine.WithLogger(log))
//	m.Register(&menu{}, "menu").Register(&game{}, "game")
//
//	if err := m.Start("menu"); err != nil {
//	    // "menu" is not registered
//	}
//	m.RequestExit()
//	_ = m.WaitUntilExit(ctx)
//
// # Transitions
//
// Enqueue appends, SwitchTo replaces the queue. EnqueuePrevious and
// SwitchToPrevious return to the most recently executed state other than the
// active one and remove it from history. ClearQueue drops pending transitions.
// With Settings.DontSwitchToSameState a dequeued transition to the active state
// is skipped and the next queued one is tried right away.
//
// # Errors
//
// Start, Enqueue and SwitchTo return *UnknownStateError for an unregistered
// identifier. Every other misuse (calls before Start or after RequestExit, a
// second Start, an empty history) is logged as a warning and ignored.
//
// Hook failures never reach the caller. Errors and panics from a hook are
// logged with the state id and hook name and the lifecycle continues.
//
// # Cancellation
//
// Every run owns a context derived from WithContext. Entry and Exit receive it.
// Dispose, or cancelling the parent context, cancels it and requests exit; the
// machine stops waiting on hooks that ignore the cancellation and winds the
// run down. Settings.HookTimeout bounds a
// single Entry or Exit call the same way.
//
// # Observability
//
// Observers registered with WithObserver receive an Event for every run start,
// state entry, exit, skip, hook call and run end. The metrics and events
// packages provide ready-made observers.
package machine
