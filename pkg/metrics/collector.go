package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/fsmkit/pkg/machine"
)

// Collector turns machine events into Prometheus metrics.
type Collector struct {
	runs         prometheus.Counter
	running      prometheus.Gauge
	transitions  *prometheus.CounterVec
	skips        *prometheus.CounterVec
	hookFailures *prometheus.CounterVec
	hookDuration *prometheus.HistogramVec
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates an unregistered collector.
func NewCollector(opts ...Option) *Collector {
	cfg := &config{
		namespace: "fsm",
		buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Collector{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "runs_total",
			Help:        "Number of machine runs started.",
			ConstLabels: cfg.constLabels,
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "running",
			Help:        "Number of machine runs in progress.",
			ConstLabels: cfg.constLabels,
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "transitions_total",
			Help:        "Number of states entered.",
			ConstLabels: cfg.constLabels,
		}, []string{"state"}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "skips_total",
			Help:        "Number of transitions skipped because the state was already active.",
			ConstLabels: cfg.constLabels,
		}, []string{"state"}),
		hookFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "hook_failures_total",
			Help:        "Number of state hooks that returned an error or panicked.",
			ConstLabels: cfg.constLabels,
		}, []string{"state", "hook"}),
		hookDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "hook_duration_seconds",
			Help:        "Duration of state hook calls.",
			Buckets:     cfg.buckets,
			ConstLabels: cfg.constLabels,
		}, []string{"hook"}),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.runs.Describe(ch)
	c.running.Describe(ch)
	c.transitions.Describe(ch)
	c.skips.Describe(ch)
	c.hookFailures.Describe(ch)
	c.hookDuration.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.runs.Collect(ch)
	c.running.Collect(ch)
	c.transitions.Collect(ch)
	c.skips.Collect(ch)
	c.hookFailures.Collect(ch)
	c.hookDuration.Collect(ch)
}

// Record updates the metrics for one machine event.
func (c *Collector) Record(evt machine.Event) {
	switch evt.Type {
	case machine.EventRunStarted:
		c.runs.Inc()
		c.running.Inc()
	case machine.EventRunExited:
		c.running.Dec()
	case machine.EventStateEntered:
		c.transitions.WithLabelValues(evt.StateID).Inc()
	case machine.EventStateSkipped:
		c.skips.WithLabelValues(evt.StateID).Inc()
	case machine.EventHookFinished:
		c.hookDuration.WithLabelValues(string(evt.Hook)).Observe(evt.Duration.Seconds())
		if evt.Err != nil {
			c.hookFailures.WithLabelValues(evt.StateID, string(evt.Hook)).Inc()
		}
	}
}

// Observer adapts the collector to a machine observer.
func (c *Collector) Observer() machine.Observer {
	return func(_ context.Context, evt machine.Event) {
		c.Record(evt)
	}
}

// Handler serves the metrics gathered by g in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
