package machine

import (
	"context"
	"runtime/debug"
)

// Hook names a lifecycle hook.
type Hook string

const (
	HookSetup               Hook = "Setup"
	HookEntry               Hook = "Entry"
	HookExit                Hook = "Exit"
	HookCleanUp             Hook = "CleanUp"
	HookOnMachineStarted    Hook = "OnMachineStarted"
	HookOnMachineStartState Hook = "OnMachineStartState"
	HookOnMachineExit       Hook = "OnMachineExit"
)

// Result is the outcome of one hook call. A zero Result is a success.
type Result struct {
	Err error
}

// Failed reports whether the hook returned an error or panicked.
func (r Result) Failed() bool { return r.Err != nil }

func resultOf(err error) Result { return Result{Err: err} }

// stateWrapper invokes the hooks of one registered state and turns returned
// errors and panics into a Result.
type stateWrapper struct {
	id    string
	state State
}

func newStateWrapper(id string, s State) *stateWrapper {
	return &stateWrapper{id: id, state: s}
}

func (w *stateWrapper) invoke(hook Hook, fn func() error) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = resultOf(&HookPanicError{StateID: w.id, Hook: hook, Value: r, Stack: debug.Stack()})
		}
	}()
	return resultOf(fn())
}

func (w *stateWrapper) setup(params []any) Result {
	return w.invoke(HookSetup, func() error { return w.state.Setup(params) })
}

func (w *stateWrapper) entry(ctx context.Context) Result {
	return w.invoke(HookEntry, func() error { return w.state.Entry(ctx) })
}

func (w *stateWrapper) exit(ctx context.Context) Result {
	return w.invoke(HookExit, func() error { return w.state.Exit(ctx) })
}

func (w *stateWrapper) cleanUp() Result {
	return w.invoke(HookCleanUp, w.state.CleanUp)
}

func (w *stateWrapper) onMachineStarted() Result {
	return w.invoke(HookOnMachineStarted, w.state.OnMachineStarted)
}

func (w *stateWrapper) onMachineStartState() Result {
	return w.invoke(HookOnMachineStartState, w.state.OnMachineStartState)
}

func (w *stateWrapper) onMachineExit() Result {
	return w.invoke(HookOnMachineExit, w.state.OnMachineExit)
}
