package async

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout  = errors.New("async: operation timed out waiting for future completion")
	ErrDetached = errors.New("async: stopped waiting for future completion")
)

// PanicError carries a value recovered from a panicking computation.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async: computation panicked: %v", e.Value)
}

// IsPanicError reports whether err wraps a *PanicError.
func IsPanicError(err error) bool {
	var e *PanicError
	return errors.As(err, &e)
}
