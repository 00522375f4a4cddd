package machine

import (
	"context"
	"fmt"
)

// State is the contract every registered state handler implements.
//
// Setup and CleanUp are synchronous. Entry and Exit may block; they receive
// the run's context and should return promptly once it is cancelled.
// OnMachineStarted and OnMachineExit are delivered to every registered state
// when a run begins and ends; OnMachineStartState only to the entry state.
//
// Returned errors and panics never propagate: the machine logs them and moves
// on to the next lifecycle phase.
//
// When the run is cancelled or the hook timeout elapses, an Entry or Exit that
// has not returned within a short grace period is abandoned and keeps running
// in the background. Exit may then be called while the abandoned Entry is
// still executing, so state shared between the two must be synchronized.
type State interface {
	Setup(params []any) error
	Entry(ctx context.Context) error
	Exit(ctx context.Context) error
	CleanUp() error
	OnMachineStarted() error
	OnMachineStartState() error
	OnMachineExit() error
}

// Controller is the transition API a state may call back into.
type Controller interface {
	Enqueue(id string, params ...any) error
	SwitchTo(id string, params ...any) error
	EnqueuePrevious()
	SwitchToPrevious()
	ClearQueue()
	RequestExit()
}

// MachineAware states receive a back-reference to the owning machine on registration.
type MachineAware interface {
	SetMachine(c Controller)
}

// Namer derives an identifier for a state registered without one.
type Namer func(State) string

// TypeName names a state after its dynamic Go type, e.g. "*checkout.PaymentState".
// Two instances of the same type registered without explicit ids collide.
func TypeName(s State) string {
	return fmt.Sprintf("%T", s)
}

// BaseState implements every hook as a no-op. Embed it and override what you need.
type BaseState struct {
	machine Controller
}

var (
	_ State        = (*BaseState)(nil)
	_ MachineAware = (*BaseState)(nil)
)

// SetMachine stores the owning machine.
func (b *BaseState) SetMachine(c Controller) { b.machine = c }

// Machine returns the controller set on registration, or nil.
func (b *BaseState) Machine() Controller { return b.machine }

// Setup does nothing.
func (*BaseState) Setup([]any) error { return nil }

// Entry does nothing.
func (*BaseState) Entry(context.Context) error { return nil }

// Exit does nothing.
func (*BaseState) Exit(context.Context) error { return nil }

// CleanUp does nothing.
func (*BaseState) CleanUp() error { return nil }

// OnMachineStarted does nothing.
func (*BaseState) OnMachineStarted() error { return nil }

// OnMachineStartState does nothing.
func (*BaseState) OnMachineStartState() error { return nil }

// OnMachineExit does nothing.
func (*BaseState) OnMachineExit() error { return nil }
