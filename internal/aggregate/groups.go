package aggregate

import (
	"sort"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
)

func meanByGroup(f *frame.Frame, rows []frame.Row, s Spec) (*Result, error) {
	if err := f.Require(s.GroupBy, s.Target); err != nil {
		return nil, err
	}
	c := newKeyedCollector()
	for _, row := range rows {
		key := row.Value(s.GroupBy).Label()
		if key == "" {
			continue
		}
		v, ok := row.Value(s.Target).Float()
		if !ok {
			continue
		}
		c.add(key, v)
	}
	out := make(map[string]float64, len(c.order))
	for _, key := range c.order {
		vs := c.vals[key]
		sum := 0.0
		for _, v := range vs {
			sum += v
		}
		out[key] = sum / float64(len(vs))
	}
	return &Result{Keyed: out, KeyOrder: c.order}, nil
}

func countByGroup(f *frame.Frame, rows []frame.Row, s Spec) (*Result, error) {
	if err := f.Require(s.GroupBy); err != nil {
		return nil, err
	}
	if s.Hue == "" {
		c := newKeyedCollector()
		for _, row := range rows {
			key := row.Value(s.GroupBy).Label()
			if key == "" {
				continue
			}
			c.add(key, 1)
		}
		out := make(map[string]float64, len(c.order))
		for _, key := range c.order {
			out[key] = float64(len(c.vals[key]))
		}
		return &Result{Keyed: out, KeyOrder: c.order}, nil
	}

	if err := f.Require(s.Hue); err != nil {
		return nil, err
	}
	var groups, hues []string
	counts := map[[2]string]float64{}
	for _, row := range rows {
		g := row.Value(s.GroupBy).Label()
		h := row.Value(s.Hue).Label()
		if g == "" || h == "" {
			continue
		}
		key := [2]string{g, h}
		if _, seen := counts[key]; !seen {
			counts[key] = 0
		}
		counts[key]++
		groups = appendUnique(groups, g)
		hues = appendUnique(hues, h)
	}
	m := &Matrix{RowLabels: groups, ColLabels: hues, Cells: make([][]float64, len(groups))}
	for i, g := range groups {
		m.Cells[i] = make([]float64, len(hues))
		for j, h := range hues {
			m.Cells[i][j] = counts[[2]string{g, h}]
		}
	}
	return &Result{Matrix: m}, nil
}

func percentageByValue(f *frame.Frame, rows []frame.Row, s Spec) (*Result, error) {
	// Single-column form: distinct-value shares of the whole column.
	if len(s.Columns) == 0 {
		if err := f.Require(s.GroupBy); err != nil {
			return nil, err
		}
		c := newKeyedCollector()
		total := 0
		for _, row := range rows {
			key := row.Value(s.GroupBy).Label()
			if key == "" {
				continue
			}
			c.add(key, 1)
			total++
		}
		out := make(map[string]float64, len(c.order))
		for _, key := range c.order {
			out[key] = float64(len(c.vals[key])) / float64(total) * 100
		}
		return &Result{Keyed: out, KeyOrder: c.order}, nil
	}

	// Multi-column form: per listed column, the share of rows matching
	// Match, optionally split by GroupBy.
	if err := f.Require(s.Columns...); err != nil {
		return nil, err
	}
	if s.GroupBy == "" {
		out := make(map[string]float64, len(s.Columns))
		order := make([]string, 0, len(s.Columns))
		for _, col := range s.Columns {
			matched, n := 0, 0
			for _, row := range rows {
				v := row.Value(col)
				if v.IsMissing() {
					continue
				}
				n++
				if v.Label() == s.Match {
					matched++
				}
			}
			pct := 0.0
			if n > 0 {
				pct = float64(matched) / float64(n) * 100
			}
			out[col] = pct
			order = append(order, col)
		}
		return &Result{Keyed: out, KeyOrder: order}, nil
	}

	if err := f.Require(s.GroupBy); err != nil {
		return nil, err
	}
	var groups []string
	grouped := map[string][]frame.Row{}
	for _, row := range rows {
		g := row.Value(s.GroupBy).Label()
		if g == "" {
			continue
		}
		if _, seen := grouped[g]; !seen {
			groups = appendUnique(groups, g)
		}
		grouped[g] = append(grouped[g], row)
	}
	m := &Matrix{RowLabels: s.Columns, ColLabels: groups, Cells: make([][]float64, len(s.Columns))}
	for i, col := range s.Columns {
		m.Cells[i] = make([]float64, len(groups))
		for j, g := range groups {
			matched, n := 0, 0
			for _, row := range grouped[g] {
				v := row.Value(col)
				if v.IsMissing() {
					continue
				}
				n++
				if v.Label() == s.Match {
					matched++
				}
			}
			if n > 0 {
				m.Cells[i][j] = float64(matched) / float64(n) * 100
			}
		}
	}
	return &Result{Matrix: m}, nil
}

func meltAndCount(f *frame.Frame, rows []frame.Row, s Spec) (*Result, error) {
	cols := append([]string{s.GroupBy}, s.Columns...)
	if err := f.Require(cols...); err != nil {
		return nil, err
	}
	var hues []string
	counts := map[[2]string]float64{}
	for _, row := range rows {
		h := row.Value(s.GroupBy).Label()
		if h == "" {
			continue
		}
		hues = appendUnique(hues, h)
		for _, cond := range s.Columns {
			v := row.Value(cond)
			if v.IsMissing() {
				continue
			}
			if s.Match != "" && v.Label() != s.Match {
				continue
			}
			counts[[2]string{cond, h}]++
		}
	}
	m := &Matrix{RowLabels: s.Columns, ColLabels: hues, Cells: make([][]float64, len(s.Columns))}
	for i, cond := range s.Columns {
		m.Cells[i] = make([]float64, len(hues))
		for j, h := range hues {
			m.Cells[i][j] = counts[[2]string{cond, h}]
		}
	}
	return &Result{Matrix: m}, nil
}

// summaryColumns is the fixed column order of a five-number summary matrix.
var summaryColumns = []string{"min", "q1", "median", "q3", "max"}

func summaryByGroup(f *frame.Frame, rows []frame.Row, s Spec) (*Result, error) {
	if err := f.Require(s.GroupBy, s.Target); err != nil {
		return nil, err
	}
	c := newKeyedCollector()
	for _, row := range rows {
		key := row.Value(s.GroupBy).Label()
		if key == "" {
			continue
		}
		v, ok := row.Value(s.Target).Float()
		if !ok {
			continue
		}
		c.add(key, v)
	}
	m := &Matrix{RowLabels: c.order, ColLabels: summaryColumns, Cells: make([][]float64, len(c.order))}
	for i, key := range c.order {
		vs := append([]float64(nil), c.vals[key]...)
		sort.Float64s(vs)
		m.Cells[i] = []float64{
			vs[0],
			quantile(vs, 0.25),
			quantile(vs, 0.5),
			quantile(vs, 0.75),
			vs[len(vs)-1],
		}
	}
	return &Result{Matrix: m}, nil
}

// quantile interpolates linearly between closest ranks (numpy's default),
// assuming vs is sorted and non-empty.
func quantile(vs []float64, q float64) float64 {
	if len(vs) == 1 {
		return vs[0]
	}
	pos := q * float64(len(vs)-1)
	lo := int(pos)
	if lo >= len(vs)-1 {
		return vs[len(vs)-1]
	}
	frac := pos - float64(lo)
	return vs[lo] + frac*(vs[lo+1]-vs[lo])
}

func appendUnique(xs []string, x string) []string {
	for _, v := range xs {
		if v == x {
			return xs
		}
	}
	return append(xs, x)
}
