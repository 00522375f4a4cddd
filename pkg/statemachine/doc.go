// Package statemachine provides a small, table-driven finite-state machine
// keyed by plain string states and events.
//
// It is deliberately minimal: a transition table, optional Guard functions that
// can veto a transition, and Action callbacks that run before the state is
// updated. The machine package uses it to track the lifecycle of a run
// (idle, running, exit requested) so that every lifecycle rule lives in one
// declarative table instead of a set of loose boolean flags.
//
// # Usage
//
//	const (
//	    Idle    = statemachine.State("idle")
//	    Running = statemachine.State("running")
//	    Start   = statemachine.Event("start")
//	    Stop    = statemachine.Event("stop")
//	)
//
//	sm := statemachine.MustNew(Idle,
//	    statemachine.WithTransition(Idle, Running, Start),
//	    statemachine.WithTransition(Running, Idle, Stop),
//	)
//
//	if err := sm.Fire(Start); err != nil {
//	    // handle
//	}
//
// # Error Handling
//
//	if statemachine.IsNoTransitionAvailableError(err) { /* event not valid here */ }
//	if statemachine.IsTransitionRejectedError(err)   { /* a guard said no */ }
//
// # Concurrency
//
// Machine guards its table and current state with a RWMutex; Current, Is and
// CanFire take the read lock while Fire, AddTransition and Reset serialize.
package statemachine
