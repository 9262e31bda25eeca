// Package source abstracts where tabular health data comes from: a blob
// store holding spreadsheet exports, the remote analytics service returning
// JSON rows, or a SQL database queried directly.
//
// Every variant honors the same contract: Fetch returns a fully decoded
// frame or a classified fault — SourceUnavailable for transport/storage
// errors, DecodeFailure for unparseable payloads, Empty for zero rows. A
// partially valid dataset is never returned silently, and each variant
// enforces its own timeout so transport failures surface distinctly from
// decode failures for status mapping at the boundary.
package source

import (
	"context"
	"fmt"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
)

// Selector kinds.
const (
	KindBlob   = "blob"
	KindRemote = "remote"
	KindSQL    = "sql"
)

// Selector names one dataset for Fetch. Exactly one of Key, Endpoint or
// Query is meaningful depending on Kind.
type Selector struct {
	Kind string

	// Key is the blob object key, e.g. "heart_2020_cleaned.xlsx".
	Key string

	// Endpoint is the remote analytics URL, POSTed with no body.
	Endpoint string

	// Query is the SQL text for the sql kind.
	Query string
}

func (s Selector) String() string {
	switch s.Kind {
	case KindBlob:
		return "blob:" + s.Key
	case KindRemote:
		return "remote:" + s.Endpoint
	case KindSQL:
		return "sql"
	default:
		return "unknown"
	}
}

// Source fetches one dataset.
type Source interface {
	Fetch(ctx context.Context, sel Selector) (*frame.Frame, error)
}

// Mux dispatches a Selector to the configured variant. Variants left nil
// fail with SourceUnavailable so a misconfigured deployment is loud.
type Mux struct {
	Blob   Source
	Remote Source
	SQL    Source
}

func (m *Mux) Fetch(ctx context.Context, sel Selector) (*frame.Frame, error) {
	var s Source
	switch sel.Kind {
	case KindBlob:
		s = m.Blob
	case KindRemote:
		s = m.Remote
	case KindSQL:
		s = m.SQL
	default:
		return nil, fmt.Errorf("source: unknown selector kind %q", sel.Kind)
	}
	if s == nil {
		return nil, fault.New(fault.SourceUnavailable, "no %s source configured", sel.Kind)
	}
	return s.Fetch(ctx, sel)
}
