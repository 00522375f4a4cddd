package fsmkit

import "errors"

var (
	ErrInvalidConfig       = errors.New("fsmkit: invalid configuration")
	ErrMetricsRegistration = errors.New("fsmkit: failed to register metrics collector")
)
