package chart

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/aggregate"
)

// keyedSeries extracts the keyed values of a result, falling back to fitted
// coefficients so a coefficient-fit can feed an ordinary bar chart.
func keyedSeries(res *aggregate.Result) (map[string]float64, []string, error) {
	if res.Keyed != nil {
		return res.Keyed, res.KeyOrder, nil
	}
	if res.Coefficients != nil {
		return res.Coefficients, res.CoefOrder, nil
	}
	return nil, nil, fmt.Errorf("chart: result carries no keyed values")
}

func renderBars(res *aggregate.Result, sp Spec) ([]byte, error) {
	vals, order, err := keyedSeries(res)
	if err != nil {
		return nil, err
	}
	keys := orderedKeys(order, sp.XOrder)
	if sp.Kind == KindHistogram {
		keys = numericAscending(keys)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("chart: no categories to draw for %q", sp.Title)
	}

	bars := make([]gochart.Value, 0, len(keys))
	for _, k := range keys {
		bars = append(bars, gochart.Value{Label: displayLabel(sp, k), Value: vals[k]})
	}

	bc := gochart.BarChart{
		Title:    sp.Title,
		Width:    sp.Width,
		Height:   sp.Height,
		BarWidth: barWidth(sp.Width, len(bars)),
		XAxis:    gochart.Style{FontSize: 9},
		YAxis: gochart.YAxis{
			Name:  sp.YLabel,
			Style: gochart.Style{FontSize: 9},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("chart: render bars: %w", err)
	}
	return buf.Bytes(), nil
}

func renderGroupedBars(res *aggregate.Result, sp Spec) ([]byte, error) {
	m := res.Matrix
	if m == nil {
		return nil, fmt.Errorf("chart: grouped-bar needs a matrix result")
	}
	rows := orderedKeys(m.RowLabels, sp.XOrder)
	cols := orderedKeys(m.ColLabels, sp.HueOrder)
	if len(rows) == 0 || len(cols) == 0 {
		return nil, fmt.Errorf("chart: no categories to draw for %q", sp.Title)
	}

	sbars := make([]gochart.StackedBar, 0, len(rows))
	for _, r := range rows {
		values := make([]gochart.Value, 0, len(cols))
		for _, c := range cols {
			values = append(values, gochart.Value{
				Label: displayLabel(sp, c),
				Value: m.At(r, c),
			})
		}
		sbars = append(sbars, gochart.StackedBar{
			Name:   displayLabel(sp, r),
			Width:  barWidth(sp.Width, len(rows)),
			Values: values,
		})
	}

	sbc := gochart.StackedBarChart{
		Title:      sp.Title,
		Width:      sp.Width,
		Height:     sp.Height,
		BarSpacing: 24,
		XAxis:      gochart.Style{FontSize: 9},
		YAxis:      gochart.Style{FontSize: 9},
		Bars:       sbars,
	}

	var buf bytes.Buffer
	if err := sbc.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("chart: render grouped bars: %w", err)
	}
	return buf.Bytes(), nil
}

func renderLine(res *aggregate.Result, sp Spec) ([]byte, error) {
	vals, order, err := keyedSeries(res)
	if err != nil {
		return nil, err
	}
	keys := orderedKeys(order, sp.XOrder)
	if len(keys) == 0 {
		return nil, fmt.Errorf("chart: no points to draw for %q", sp.Title)
	}

	xs := make([]float64, len(keys))
	ys := make([]float64, len(keys))
	ticks := make([]gochart.Tick, len(keys))
	for i, k := range keys {
		xs[i] = float64(i)
		ys[i] = vals[k]
		ticks[i] = gochart.Tick{Value: float64(i), Label: displayLabel(sp, k)}
	}

	c := gochart.Chart{
		Title:  sp.Title,
		Width:  sp.Width,
		Height: sp.Height,
		XAxis: gochart.XAxis{
			Name:  sp.XLabel,
			Style: gochart.Style{FontSize: 9, TextRotationDegrees: 45},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  sp.YLabel,
			Style: gochart.Style{FontSize: 9},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style:   gochart.Style{StrokeWidth: 2, DotWidth: 4},
			},
		},
	}

	var buf bytes.Buffer
	if err := c.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("chart: render line: %w", err)
	}
	return buf.Bytes(), nil
}

// numericAscending orders histogram bin labels by numeric value. Non-numeric
// labels sort after the numeric ones, keeping their relative order.
func numericAscending(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.SliceStable(out, func(i, j int) bool {
		a, aerr := strconv.ParseFloat(out[i], 64)
		b, berr := strconv.ParseFloat(out[j], 64)
		if aerr != nil || berr != nil {
			return aerr == nil && berr != nil
		}
		return a < b
	})
	return out
}

// barWidth spreads bars over roughly 70% of the canvas.
func barWidth(canvas, n int) int {
	if n <= 0 {
		return 40
	}
	w := canvas * 7 / (10 * n)
	if w < 12 {
		w = 12
	}
	if w > 120 {
		w = 120
	}
	return w
}
