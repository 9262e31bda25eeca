// Package report runs the catalog-driven analytics pipelines and the
// patient lookup service built on the same primitives.
//
// The executor is the only place that sequences the pipeline stages:
// catalog lookup, dataset fetch, feature derivation, aggregation, chart
// render, artifact publish. Every stage either succeeds completely or
// fails the run; no partial artifact ever reaches a sink.
package report

import (
	"context"
	"log"
	"time"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/aggregate"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/catalog"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/chart"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/metrics"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/sink"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/source"
)

// Executor interprets catalog definitions against the wired source and sink.
type Executor struct {
	Source  source.Source
	Catalog *catalog.Catalog
	Sink    sink.Sink
}

// Run executes the report with the given id end to end and returns the
// published artifact (URL or inline bytes, per the definition's sink mode).
func (e *Executor) Run(ctx context.Context, id string) (sink.Published, error) {
	def, ok := e.Catalog.Lookup(id)
	if !ok {
		return sink.Published{}, fault.New(fault.NotFound, "report %q not registered", id)
	}

	var err error
	defer func(start time.Time) {
		metrics.RecordReport(id, err)
		log.Printf("report: %s finished in %s err=%v", id, time.Since(start).Round(time.Millisecond), err)
	}(time.Now())

	start := time.Now()
	f, err := e.Source.Fetch(ctx, def.Source)
	metrics.RecordStage(id, "fetch", err, time.Since(start))
	if err != nil {
		return sink.Published{}, err
	}
	metrics.RecordRows(id, int64(f.Len()))

	start = time.Now()
	err = def.Derive.Apply(f)
	metrics.RecordStage(id, "derive", err, time.Since(start))
	if err != nil {
		return sink.Published{}, err
	}

	start = time.Now()
	res, err := aggregate.Run(f, def.Aggregate)
	metrics.RecordStage(id, "aggregate", err, time.Since(start))
	if err != nil {
		return sink.Published{}, err
	}

	start = time.Now()
	art, err := chart.Render(res, def.Chart)
	metrics.RecordStage(id, "render", err, time.Since(start))
	if err != nil {
		return sink.Published{}, err
	}

	start = time.Now()
	pub, err := e.Sink.Publish(ctx, art, def.Sink)
	metrics.RecordStage(id, "publish", err, time.Since(start))
	if err != nil {
		return sink.Published{}, err
	}
	return pub, nil
}
