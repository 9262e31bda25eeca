// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the report pipeline.
//
// The package exposes a narrow interface (Backend) focused on counters and
// timing data, with a global, pluggable backend that defaults to a no-op
// implementation, so metrics are always safe to call even when no real
// backend is configured. Concrete metric systems stay isolated in
// subpackages; the rest of the codebase depends only on this interface.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a value in a latency/duration style metric.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)      {}
func (nopBackend) ObserveDuration(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                              { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage measures latency + success/failure of one pipeline stage
// (fetch, derive, aggregate, render, publish) for a report.
func RecordStage(report, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"report": report,
		"stage":  stage,
		"status": status,
	}

	backend.IncCounter("report_stage_total", 1, lbls)
	backend.ObserveDuration("report_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordReport counts one finished report run by outcome.
func RecordReport(report string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	backend.IncCounter("report_runs_total", 1, Labels{
		"report": report,
		"status": status,
	})
}

// RecordRows counts dataset rows flowing into a report's pipeline.
func RecordRows(report string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("report_rows_total", float64(delta), Labels{
		"report": report,
	})
}
