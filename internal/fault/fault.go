// Package fault defines the error taxonomy shared by every stage of the
// report pipeline.
//
// The taxonomy is deliberately small and closed:
//
//   - SourceUnavailable: transport/storage failure while fetching a dataset.
//   - DecodeFailure:     the payload could not be decoded into tabular rows.
//   - Empty:             the dataset decoded cleanly but contains zero rows.
//   - MissingColumn:     a derivation or aggregation needs a column the
//     dataset does not carry.
//   - FitDidNotConverge: the logistic solver ran out of iterations or hit a
//     singular system.
//   - StoreUnavailable:  uploading a rendered artifact failed.
//   - NotFound:          a requested entity (e.g. patient id) is absent.
//
// Stages fail fast and propagate these errors unchanged; only the HTTP
// boundary translates kinds into status codes. No stage substitutes defaults,
// because a silently defaulted value would corrupt patient-facing numbers.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// Unknown is the zero Kind, used for errors outside the taxonomy.
	Unknown Kind = iota
	SourceUnavailable
	DecodeFailure
	Empty
	MissingColumn
	FitDidNotConverge
	StoreUnavailable
	NotFound
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case SourceUnavailable:
		return "source_unavailable"
	case DecodeFailure:
		return "decode_failure"
	case Empty:
		return "empty"
	case MissingColumn:
		return "missing_column"
	case FitDidNotConverge:
		return "fit_did_not_converge"
	case StoreUnavailable:
		return "store_unavailable"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a classified pipeline error. It optionally wraps a cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a classified error from a format string.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error. A nil cause yields a plain New.
func Wrap(k Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Column constructs the MissingColumn error for a named column.
func Column(name string) *Error {
	return &Error{Kind: MissingColumn, Msg: fmt.Sprintf("column %q not present in dataset", name)}
}

// KindOf extracts the Kind from err, walking the wrap chain.
// Unclassified errors report Unknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}
