// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// It adapts the generic metrics.Backend interface to Prometheus by using
// client_golang CounterVec and SummaryVec collectors, mapping the pipeline
// labels (report, stage, status) onto Prometheus labels, and pushing the
// collected registry to a Pushgateway instead of exposing a scrape endpoint.
// All Prometheus-specific dependencies live here so the rest of the project
// can swap backends without touching the core pipeline.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stageCounter  *prometheus.CounterVec // "report_stage_total"
	stageDuration *prometheus.SummaryVec // "report_stage_duration_seconds"
	runCounter    *prometheus.CounterVec // "report_runs_total"
	rowCounter    *prometheus.CounterVec // "report_rows_total"
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name. gatewayURL: base URL of the server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "analytics"
	}

	reg := prometheus.NewRegistry()

	stageCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_stage_total",
			Help: "Total pipeline stage executions, partitioned by report, stage, and status.",
		},
		[]string{"report", "stage", "status"},
	)
	stageDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "report_stage_duration_seconds",
			Help:       "Duration of pipeline stages in seconds, partitioned by report, stage, and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"report", "stage", "status"},
	)
	runCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_runs_total",
			Help: "Finished report runs, partitioned by report and status.",
		},
		[]string{"report", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_rows_total",
			Help: "Dataset rows fed into report pipelines, partitioned by report.",
		},
		[]string{"report"},
	)

	if err := reg.Register(stageCounter); err != nil {
		return nil, fmt.Errorf("prompush: register stage counter: %w", err)
	}
	if err := reg.Register(stageDuration); err != nil {
		return nil, fmt.Errorf("prompush: register stage summary: %w", err)
	}
	if err := reg.Register(runCounter); err != nil {
		return nil, fmt.Errorf("prompush: register run counter: %w", err)
	}
	if err := reg.Register(rowCounter); err != nil {
		return nil, fmt.Errorf("prompush: register row counter: %w", err)
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stageCounter:  stageCounter,
		stageDuration: stageDuration,
		runCounter:    runCounter,
		rowCounter:    rowCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "report_stage_total":
		b.stageCounter.WithLabelValues(labels["report"], labels["stage"], labels["status"]).Add(delta)
	case "report_runs_total":
		b.runCounter.WithLabelValues(labels["report"], labels["status"]).Add(delta)
	case "report_rows_total":
		b.rowCounter.WithLabelValues(labels["report"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveDuration(name string, value float64, labels metrics.Labels) {
	if name != "report_stage_duration_seconds" {
		return
	}
	b.stageDuration.WithLabelValues(labels["report"], labels["stage"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
