package metrics

import "github.com/prometheus/client_golang/prometheus"

type config struct {
	namespace   string
	subsystem   string
	buckets     []float64
	constLabels prometheus.Labels
}

// Option configures a Collector.
type Option func(*config)

// WithNamespace sets the metric name prefix. Defaults to "fsm".
func WithNamespace(ns string) Option {
	return func(c *config) { c.namespace = ns }
}

func WithSubsystem(s string) Option {
	return func(c *config) { c.subsystem = s }
}

// WithBuckets sets the hook duration histogram buckets in seconds.
func WithBuckets(buckets ...float64) Option {
	return func(c *config) {
		if len(buckets) > 0 {
			c.buckets = buckets
		}
	}
}

// WithConstLabels attaches labels to every series, e.g. to tell machines apart.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *config) { c.constLabels = labels }
}
