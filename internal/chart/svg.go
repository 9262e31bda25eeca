package chart

import (
	"fmt"
	"strings"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/aggregate"
)

// Heatmap and box charts are drawn directly as SVG: the bar-chart backend
// has no grid or whisker primitives, and both charts are simple enough that
// explicit rects and lines keep full control over the declared cell order.

const (
	svgMarginTop    = 48
	svgMarginRight  = 40
	svgMarginBottom = 80
	svgMarginLeft   = 140
	svgFontSize     = 11
	svgTextColor    = "#333333"
)

func svgOpen(sb *strings.Builder, w, h int, title string) {
	fmt.Fprintf(sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, h, w, h)
	fmt.Fprintf(sb, `<rect x="0" y="0" width="%d" height="%d" fill="#ffffff"/>`, w, h)
	if title != "" {
		fmt.Fprintf(sb, `<text x="%d" y="24" font-size="14" text-anchor="middle" fill="%s">%s</text>`,
			w/2, svgTextColor, svgEscape(title))
	}
}

func svgText(sb *strings.Builder, x, y int, anchor, s string) {
	fmt.Fprintf(sb, `<text x="%d" y="%d" font-size="%d" text-anchor="%s" fill="%s">%s</text>`,
		x, y, svgFontSize, anchor, svgTextColor, svgEscape(s))
}

func svgEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

// heatColor maps a correlation in [-1, 1] onto a blue-white-red ramp.
func heatColor(v float64) string {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	if v >= 0 {
		// white -> red
		g := int(255 * (1 - v))
		return fmt.Sprintf("#ff%02x%02x", g, g)
	}
	// white -> blue
	g := int(255 * (1 + v))
	return fmt.Sprintf("#%02x%02xff", g, g)
}

func renderHeatmap(res *aggregate.Result, sp Spec) ([]byte, error) {
	m := res.Matrix
	if m == nil {
		return nil, fmt.Errorf("chart: heatmap needs a matrix result")
	}
	rows := orderedKeys(m.RowLabels, sp.XOrder)
	cols := orderedKeys(m.ColLabels, sp.XOrder)
	if len(rows) == 0 || len(cols) == 0 {
		return nil, fmt.Errorf("chart: empty matrix for %q", sp.Title)
	}

	plotW := sp.Width - svgMarginLeft - svgMarginRight
	plotH := sp.Height - svgMarginTop - svgMarginBottom
	cellW := plotW / len(cols)
	cellH := plotH / len(rows)

	var sb strings.Builder
	svgOpen(&sb, sp.Width, sp.Height, sp.Title)
	for i, r := range rows {
		y := svgMarginTop + i*cellH
		svgText(&sb, svgMarginLeft-8, y+cellH/2+svgFontSize/2, "end", displayLabel(sp, r))
		for j, c := range cols {
			x := svgMarginLeft + j*cellW
			v := m.At(r, c)
			fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="#ffffff" stroke-width="0.5"/>`,
				x, y, cellW, cellH, heatColor(v))
			svgText(&sb, x+cellW/2, y+cellH/2+svgFontSize/2, "middle", fmt.Sprintf("%.2f", v))
		}
	}
	for j, c := range cols {
		x := svgMarginLeft + j*cellW + cellW/2
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="%d" text-anchor="end" fill="%s" transform="rotate(-45 %d %d)">%s</text>`,
			x, svgMarginTop+plotH+18, svgFontSize, svgTextColor, x, svgMarginTop+plotH+18, svgEscape(displayLabel(sp, c)))
	}
	sb.WriteString(`</svg>`)
	return []byte(sb.String()), nil
}

func renderBox(res *aggregate.Result, sp Spec) ([]byte, error) {
	m := res.Matrix
	if m == nil {
		return nil, fmt.Errorf("chart: box needs a matrix result")
	}
	groups := orderedKeys(m.RowLabels, sp.XOrder)
	if len(groups) == 0 {
		return nil, fmt.Errorf("chart: empty summary for %q", sp.Title)
	}

	// Value range across all whiskers, padded 5%.
	lo, hi := m.At(groups[0], "min"), m.At(groups[0], "max")
	for _, g := range groups {
		if v := m.At(g, "min"); v < lo {
			lo = v
		}
		if v := m.At(g, "max"); v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.05
	hi += span * 0.05
	span = hi - lo

	plotW := sp.Width - svgMarginLeft - svgMarginRight
	plotH := sp.Height - svgMarginTop - svgMarginBottom
	slot := plotW / len(groups)
	boxW := slot * 4 / 10

	yOf := func(v float64) int {
		return svgMarginTop + int(float64(plotH)*(hi-v)/span)
	}

	var sb strings.Builder
	svgOpen(&sb, sp.Width, sp.Height, sp.Title)

	// Y scale: min/mid/max gridline labels.
	for _, v := range []float64{lo, lo + span/2, hi} {
		y := yOf(v)
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#e8e8e8"/>`,
			svgMarginLeft, y, svgMarginLeft+plotW, y)
		svgText(&sb, svgMarginLeft-8, y+svgFontSize/2, "end", fmt.Sprintf("%.1f", v))
	}

	for i, g := range groups {
		cx := svgMarginLeft + i*slot + slot/2
		min, q1 := m.At(g, "min"), m.At(g, "q1")
		med, q3 := m.At(g, "median"), m.At(g, "q3")
		max := m.At(g, "max")

		// Whiskers and caps.
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`, cx, yOf(max), cx, yOf(q3), svgTextColor)
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`, cx, yOf(q1), cx, yOf(min), svgTextColor)
		for _, v := range []float64{min, max} {
			fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`,
				cx-boxW/4, yOf(v), cx+boxW/4, yOf(v), svgTextColor)
		}
		// Interquartile box and median line.
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="#9ecae1" stroke="%s"/>`,
			cx-boxW/2, yOf(q3), boxW, yOf(q1)-yOf(q3), svgTextColor)
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
			cx-boxW/2, yOf(med), cx+boxW/2, yOf(med), svgTextColor)

		svgText(&sb, cx, svgMarginTop+plotH+20, "middle", displayLabel(sp, g))
	}
	if sp.XLabel != "" {
		svgText(&sb, svgMarginLeft+plotW/2, sp.Height-16, "middle", sp.XLabel)
	}
	sb.WriteString(`</svg>`)
	return []byte(sb.String()), nil
}
