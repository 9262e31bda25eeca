package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/aggregate"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/catalog"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/chart"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/sink"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/source"
)

// stubSource serves fixed frames keyed by selector string, or a fixed error.
type stubSource struct {
	frames map[string]*frame.Frame
	err    error
}

func (s *stubSource) Fetch(ctx context.Context, sel source.Selector) (*frame.Frame, error) {
	if s.err != nil {
		return nil, s.err
	}
	f, ok := s.frames[sel.String()]
	if !ok {
		return nil, fault.New(fault.SourceUnavailable, "no fixture for %s", sel)
	}
	return f, nil
}

// captureSink records the published artifact and echoes the mode decision.
type captureSink struct {
	err      error
	artifact chart.Artifact
	mode     sink.Mode
}

func (s *captureSink) Publish(ctx context.Context, a chart.Artifact, mode sink.Mode) (sink.Published, error) {
	if s.err != nil {
		return sink.Published{}, s.err
	}
	s.artifact = a
	s.mode = mode
	if mode == sink.ModeInline {
		return sink.Published{Artifact: &a}, nil
	}
	return sink.Published{URL: "https://store.example/" + a.Filename}, nil
}

func smokingFrame() *frame.Frame {
	rows := []frame.Row{
		{"Smoking": frame.String("Yes")},
		{"Smoking": frame.String("Yes")},
		{"Smoking": frame.String("No")},
	}
	return frame.New([]string{"Smoking"}, rows)
}

func smokingDefinition(mode sink.Mode) catalog.Definition {
	return catalog.Definition{
		ID:        "smoking",
		Source:    source.Selector{Kind: source.KindRemote, Endpoint: "https://analytics.example/smoking"},
		Aggregate: aggregate.Spec{Kind: aggregate.CountByGroup, GroupBy: "Smoking"},
		Chart: chart.Spec{
			Kind:     chart.KindCount,
			Title:    "Smoking Status",
			Filename: "smoking.svg",
		},
		Sink: mode,
	}
}

func newExecutor(t *testing.T, def catalog.Definition, src source.Source, snk sink.Sink) *Executor {
	t.Helper()
	c, err := catalog.New(def)
	require.NoError(t, err)
	return &Executor{Source: src, Catalog: c, Sink: snk}
}

// TestRunInline drives one definition end to end and checks the rendered
// artifact reaches the sink in the definition's mode.
func TestRunInline(t *testing.T) {
	t.Parallel()

	def := smokingDefinition(sink.ModeInline)
	src := &stubSource{frames: map[string]*frame.Frame{def.Source.String(): smokingFrame()}}
	snk := &captureSink{}
	e := newExecutor(t, def, src, snk)

	pub, err := e.Run(context.Background(), "smoking")
	require.NoError(t, err)
	require.True(t, pub.Inline())
	assert.Equal(t, sink.ModeInline, snk.mode)
	assert.Equal(t, "smoking.svg", snk.artifact.Filename)
	assert.Equal(t, "image/svg+xml", snk.artifact.ContentType)
	assert.Contains(t, string(snk.artifact.Bytes), "Smoking Status")
}

// TestRunUpload checks upload definitions come back as a URL, not bytes.
func TestRunUpload(t *testing.T) {
	t.Parallel()

	def := smokingDefinition(sink.ModeUpload)
	src := &stubSource{frames: map[string]*frame.Frame{def.Source.String(): smokingFrame()}}
	e := newExecutor(t, def, src, &captureSink{})

	pub, err := e.Run(context.Background(), "smoking")
	require.NoError(t, err)
	assert.False(t, pub.Inline())
	assert.Equal(t, "https://store.example/smoking.svg", pub.URL)
}

// TestRunUnknownReport checks an unregistered id is NotFound before any
// stage runs.
func TestRunUnknownReport(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, smokingDefinition(sink.ModeInline), &stubSource{err: errors.New("must not be called")}, &captureSink{})
	_, err := e.Run(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
}

// TestRunStageFailures checks a failing stage stops the run with its fault
// kind intact and nothing reaches the sink.
func TestRunStageFailures(t *testing.T) {
	t.Parallel()

	t.Run("fetch_fails", func(t *testing.T) {
		t.Parallel()
		def := smokingDefinition(sink.ModeInline)
		snk := &captureSink{}
		e := newExecutor(t, def, &stubSource{err: fault.New(fault.SourceUnavailable, "down")}, snk)
		_, err := e.Run(context.Background(), "smoking")
		assert.Equal(t, fault.SourceUnavailable, fault.KindOf(err))
		assert.Empty(t, snk.artifact.Bytes)
	})

	t.Run("aggregate_fails", func(t *testing.T) {
		t.Parallel()
		def := smokingDefinition(sink.ModeInline)
		def.Aggregate.GroupBy = "NoSuchColumn"
		snk := &captureSink{}
		src := &stubSource{frames: map[string]*frame.Frame{def.Source.String(): smokingFrame()}}
		e := newExecutor(t, def, src, snk)
		_, err := e.Run(context.Background(), "smoking")
		assert.Equal(t, fault.MissingColumn, fault.KindOf(err))
		assert.Empty(t, snk.artifact.Bytes)
	})

	t.Run("publish_fails", func(t *testing.T) {
		t.Parallel()
		def := smokingDefinition(sink.ModeUpload)
		src := &stubSource{frames: map[string]*frame.Frame{def.Source.String(): smokingFrame()}}
		e := newExecutor(t, def, src, &captureSink{err: fault.New(fault.StoreUnavailable, "denied")})
		_, err := e.Run(context.Background(), "smoking")
		assert.Equal(t, fault.StoreUnavailable, fault.KindOf(err))
	})
}
