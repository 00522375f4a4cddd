package machine

import (
	"errors"
	"fmt"
)

var (
	ErrNilState       = errors.New("machine: state cannot be nil")
	ErrMachineRunning = errors.New("machine: cannot register states while the machine is running")
)

// UnknownStateError is returned when a transition names an identifier that was never registered.
type UnknownStateError struct {
	ID string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("machine: invalid state identifier %q", e.ID)
}

// NewUnknownStateError returns an *UnknownStateError for id.
func NewUnknownStateError(id string) *UnknownStateError {
	return &UnknownStateError{ID: id}
}

// DuplicateStateError is returned when an identifier is registered twice.
type DuplicateStateError struct {
	ID string
}

func (e *DuplicateStateError) Error() string {
	return fmt.Sprintf("machine: state %q is already registered; pass an explicit identifier to register two instances of the same type", e.ID)
}

// NewDuplicateStateError returns a *DuplicateStateError for id.
func NewDuplicateStateError(id string) *DuplicateStateError {
	return &DuplicateStateError{ID: id}
}

// HookPanicError carries a panic recovered from a state hook.
type HookPanicError struct {
	StateID string
	Hook    Hook
	Value   any
	Stack   []byte
}

func (e *HookPanicError) Error() string {
	return fmt.Sprintf("machine: %s hook of state %q panicked: %v", e.Hook, e.StateID, e.Value)
}

// IsUnknownStateError reports whether err is or wraps an *UnknownStateError.
func IsUnknownStateError(err error) bool {
	var e *UnknownStateError
	return errors.As(err, &e)
}

// IsDuplicateStateError reports whether err is or wraps a *DuplicateStateError.
func IsDuplicateStateError(err error) bool {
	var e *DuplicateStateError
	return errors.As(err, &e)
}

// IsHookPanicError reports whether err is or wraps a *HookPanicError.
func IsHookPanicError(err error) bool {
	var e *HookPanicError
	return errors.As(err, &e)
}
