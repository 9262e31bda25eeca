// Package derive applies ordered feature-derivation steps to a frame before
// aggregation.
//
// A Step is a named, deterministic transform that adds or rewrites one column
// in place. Steps never drop rows and never panic on a malformed cell; a cell
// that cannot be derived becomes frame.Missing. A step that needs a column
// the frame does not carry fails with a MissingColumn fault, which aborts the
// whole pipeline rather than mislabeling downstream charts.
package derive

import "github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"

// Step is a single pure column derivation.
type Step interface {
	// Name identifies the step in logs and error messages.
	Name() string
	// Apply mutates f in place. It must be deterministic, must not change
	// the row count, and fails only for structural problems (missing
	// columns), never for individual malformed cells.
	Apply(f *frame.Frame) error
}

// Chain is an ordered list of steps. Each step's output is the next step's
// input; there is no parallel branching.
type Chain []Step

// Apply runs the chain in declared order, stopping at the first error.
func (c Chain) Apply(f *frame.Frame) error {
	for _, s := range c {
		if s == nil {
			continue
		}
		if err := s.Apply(f); err != nil {
			return err
		}
	}
	return nil
}
