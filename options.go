package fsmkit

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/fsmkit/pkg/machine"
)

type options struct {
	logger      *slog.Logger
	logOutput   io.Writer
	registerer  prometheus.Registerer
	machineOpts []machine.Option
}

// Option customizes New beyond what Config expresses.
type Option func(*options)

// WithLogger replaces the logger built from Config.Log.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLogOutput sets where the logger built from Config.Log writes. Defaults to stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithRegisterer registers the metrics collector with r instead of a private registry.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.registerer = r }
}

// WithMachineOptions appends options applied after the ones derived from Config.
func WithMachineOptions(opts ...machine.Option) Option {
	return func(o *options) { o.machineOpts = append(o.machineOpts, opts...) }
}
