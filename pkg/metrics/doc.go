// Package metrics exposes machine activity as Prometheus metrics.
//
// A Collector is a prometheus.Collector fed by machine events:
//
//	c := metrics.NewCollector(metrics.WithNamespace("checkout"))
//	prometheus.MustRegister(c)
//
//	m := machine.New(machine.WithObserver(c.Observer()))
//
//	http.Handle("/metrics", metrics.Handler(prometheus.DefaultGatherer))
//
// Exported series, prefixed with the namespace (default "fsm"):
//
//	runs_total                          runs started
//	running                             runs in progress
//	transitions_total{state}            states entered
//	skips_total{state}                  transitions skipped as same-state
//	hook_failures_total{state,hook}     hooks that returned an error or panicked
//	hook_duration_seconds{hook}         hook call latency
package metrics
