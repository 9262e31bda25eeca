// Package sink publishes rendered chart artifacts: either uploaded to the
// blob store and handed back as a time-limited presigned URL, or returned
// inline for the boundary to stream as the response body.
package sink

import (
	"context"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/chart"
)

// Mode selects how an artifact reaches the caller.
type Mode string

const (
	// ModeUpload stores the artifact in the blob store and returns a URL.
	ModeUpload Mode = "upload"
	// ModeInline returns the artifact bytes for direct streaming.
	ModeInline Mode = "inline"
)

// Published is the outcome of one Publish call. URL is set in upload mode;
// Artifact is set in inline mode.
type Published struct {
	URL      string
	Artifact *chart.Artifact
}

// Inline reports whether the caller should stream the artifact bytes.
func (p Published) Inline() bool { return p.Artifact != nil }

// Sink publishes one artifact. The artifact is consumed by exactly one call.
type Sink interface {
	Publish(ctx context.Context, a chart.Artifact, mode Mode) (Published, error)
}
