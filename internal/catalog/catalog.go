// Package catalog is the static, process-lifetime registry of report
// definitions. Each definition declares the whole pipeline for one report —
// dataset selector, derivation steps, aggregation spec, chart spec and sink
// mode — so the executor can interpret it instead of every report carrying
// its own handler body. The registry is read-only after initialization.
package catalog

import (
	"fmt"
	"sort"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/aggregate"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/chart"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/derive"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/sink"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/source"
)

// Definition is one immutable report entry.
type Definition struct {
	ID        string
	Source    source.Selector
	Derive    derive.Chain
	Aggregate aggregate.Spec
	Chart     chart.Spec
	Sink      sink.Mode
}

// Catalog maps report identifiers to definitions.
type Catalog struct {
	defs map[string]Definition
}

// New builds a catalog from definitions, rejecting duplicates and blank ids.
func New(defs ...Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog: definition without id")
		}
		if _, dup := c.defs[d.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate report id %q", d.ID)
		}
		c.defs[d.ID] = d
	}
	return c, nil
}

// Lookup returns the definition for id. A missing id is a boundary-level
// concern (404); the catalog just reports absence.
func (c *Catalog) Lookup(id string) (Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// IDs lists the registered report identifiers, sorted.
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.defs))
	for id := range c.defs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
