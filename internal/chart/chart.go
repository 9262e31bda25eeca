// Package chart turns an aggregation result plus a chart spec into a
// rendered SVG artifact.
//
// Rendering is stateless from the caller's point of view, but the drawing
// backend is treated as a single shared resource: every render acquires the
// package render gate for the full duration of the call, so concurrent
// report requests cannot bleed axis state into each other's output. The
// renderer applies the declared axis order and labels exactly as given and
// never re-bins data already shaped by the aggregator. The one ordering the
// renderer owns is the histogram's: numeric bins always draw ascending.
package chart

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/aggregate"
)

// Kind selects the chart family.
type Kind string

const (
	KindCount      Kind = "count"
	KindBar        Kind = "bar"
	KindGroupedBar Kind = "grouped-bar"
	KindHistogram  Kind = "histogram"
	KindHeatmap    Kind = "heatmap"
	KindBox        Kind = "box"
	KindLine       Kind = "line"
)

// ContentTypeSVG is the single output format of the renderer.
const ContentTypeSVG = "image/svg+xml"

// Spec declares how an aggregation result is drawn.
type Spec struct {
	Kind   Kind
	Title  string
	XLabel string
	YLabel string

	// Filename is the suggested artifact filename (e.g. "bmiVsHeart.svg").
	Filename string

	// XOrder fixes the category order of the primary axis. Categories with
	// a clinical order (BMI bands, general health) must never fall back to
	// lexicographic order. Empty means first-seen data order.
	XOrder []string

	// HueOrder fixes the series order for matrix-backed charts.
	HueOrder []string

	// Labels renames data keys for display, e.g. "1" -> "Yes".
	Labels map[string]string

	Width  int
	Height int
}

// Artifact is a rendered chart: opaque bytes plus response metadata. It is
// created here, consumed by exactly one sink call, then discarded.
type Artifact struct {
	Bytes       []byte
	ContentType string
	Filename    string
}

// renderMu is the exclusive gate over the drawing backend's implicit global
// state. Held for the whole of one Render call.
var renderMu sync.Mutex

// Render draws the result according to the spec.
func Render(res *aggregate.Result, sp Spec) (Artifact, error) {
	renderMu.Lock()
	defer renderMu.Unlock()

	if sp.Width <= 0 {
		sp.Width = 1000
	}
	if sp.Height <= 0 {
		sp.Height = 600
	}

	var (
		body []byte
		err  error
	)
	switch sp.Kind {
	case KindCount, KindBar, KindHistogram:
		body, err = renderBars(res, sp)
	case KindGroupedBar:
		body, err = renderGroupedBars(res, sp)
	case KindLine:
		body, err = renderLine(res, sp)
	case KindHeatmap:
		body, err = renderHeatmap(res, sp)
	case KindBox:
		body, err = renderBox(res, sp)
	default:
		return Artifact{}, fmt.Errorf("chart: unknown kind %q", sp.Kind)
	}
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Bytes: body, ContentType: ContentTypeSVG, Filename: sp.Filename}, nil
}

var titleCaser = cases.Title(language.English)

// displayLabel resolves the rendered text for a data key: explicit renames
// win, snake_case column names are humanized, everything else passes
// through untouched.
func displayLabel(sp Spec, key string) string {
	if v, ok := sp.Labels[key]; ok {
		return v
	}
	if strings.Contains(key, "_") {
		return titleCaser.String(strings.ReplaceAll(key, "_", " "))
	}
	return key
}

// orderedKeys applies a declared order over the data keys. Declared entries
// absent from the data are skipped; with no declared order the data's
// first-seen order is kept verbatim.
func orderedKeys(dataOrder, declared []string) []string {
	if len(declared) == 0 {
		return dataOrder
	}
	present := make(map[string]bool, len(dataOrder))
	for _, k := range dataOrder {
		present[k] = true
	}
	out := make([]string, 0, len(declared))
	for _, k := range declared {
		if present[k] {
			out = append(out, k)
		}
	}
	return out
}
