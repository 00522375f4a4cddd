package fsmkit

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/fsmkit/pkg/events"
	"github.com/dmitrymomot/fsmkit/pkg/logger"
	"github.com/dmitrymomot/fsmkit/pkg/machine"
	"github.com/dmitrymomot/fsmkit/pkg/metrics"
)

// Kit is a machine wired to a logger and, when enabled, metrics and an event hub.
type Kit struct {
	Machine *machine.Machine
	Logger  *slog.Logger

	// Metrics and Events are nil unless enabled in Config.
	Metrics *metrics.Collector
	Events  *events.Hub

	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
}

// New builds a Kit from cfg.
func New(cfg Config, opts ...Option) (*Kit, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	k := &Kit{Logger: o.logger}
	if k.Logger == nil {
		l, err := newLogger(cfg.Log, o.logOutput)
		if err != nil {
			return nil, err
		}
		k.Logger = l
	}

	machineOpts := []machine.Option{
		machine.WithLogger(k.Logger),
		machine.WithSettings(cfg.Machine),
	}

	if cfg.Metrics.Enabled {
		k.Metrics = metrics.NewCollector(metrics.WithNamespace(cfg.Metrics.Namespace))
		k.registerer = o.registerer
		if k.registerer == nil {
			reg := prometheus.NewRegistry()
			k.registerer, k.gatherer = reg, reg
		} else if g, ok := k.registerer.(prometheus.Gatherer); ok {
			k.gatherer = g
		}
		if err := k.registerer.Register(k.Metrics); err != nil {
			return nil, errors.Join(ErrMetricsRegistration, err)
		}
		machineOpts = append(machineOpts, machine.WithObserver(k.Metrics.Observer()))
	}

	if cfg.Events.Enabled {
		k.Events = events.NewHub(events.WithBufferSize(cfg.Events.BufferSize))
		machineOpts = append(machineOpts, machine.WithObserver(k.Events.Observer()))
	}

	k.Machine = machine.New(append(machineOpts, o.machineOpts...)...)
	return k, nil
}

func newLogger(cfg LogConfig, out io.Writer) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithOutput(out),
		logger.WithContextExtractors(machine.RunIDExtractor),
	}
	if cfg.Level != "" {
		lvl, err := logger.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		opts = append(opts, logger.WithLevel(lvl))
	}
	if cfg.Format != "" {
		f, err := logger.ParseFormat(cfg.Format)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		opts = append(opts, logger.WithFormat(f))
	}
	return logger.New(opts...), nil
}

// MetricsHandler serves the kit's metrics. It responds 404 when metrics are
// disabled or registered with a registerer that cannot be gathered.
func (k *Kit) MetricsHandler() http.Handler {
	if k.gatherer == nil {
		return http.NotFoundHandler()
	}
	return metrics.Handler(k.gatherer)
}

// Close disposes the machine, closes the event hub and unregisters the collector.
// It does not wait for the run to finish; use Machine.WaitUntilExit for that.
func (k *Kit) Close() error {
	k.Machine.Dispose()
	if k.Events != nil {
		_ = k.Events.Close()
	}
	if k.Metrics != nil {
		k.registerer.Unregister(k.Metrics)
	}
	return nil
}
