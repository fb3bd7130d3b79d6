// Package redacterr defines the error-kind taxonomy shared by every stage
// of the redaction pipeline (spec.md 7), so the root package can decide
// propagation policy (abort the page vs. accumulate a warning) without
// inspecting component-specific error types.
package redacterr

import "fmt"

// Kind classifies a pipeline error by how the caller must react to it.
type Kind int

const (
	// MalformedStream is a tokenizer or state-machine structural
	// violation. Fatal: the page aborts and the caller gets no output for
	// the affected content stream.
	MalformedStream Kind = iota
	// UnresolvableFont is a show operation referencing a font absent from
	// the resource scope. Non-fatal: the operation passes through
	// unchanged and is never selected for removal.
	UnresolvableFont
	// AlignmentFailure is the correlator failing to match letters to
	// glyphs within its look-ahead window. Non-fatal: falls back to
	// whole-operation removal for any operation overlapping a redaction
	// area.
	AlignmentFailure
	// UnsupportedFeature covers Type 3 fonts, inline images overlapping a
	// redaction area, patterns, shadings, and ActualText marked-content
	// ranges. Non-fatal: the operation is preserved unchanged.
	UnsupportedFeature
	// Cancelled means the caller's cancellation predicate fired.
	Cancelled
	// InternalInvariant indicates a bug. Fatal: no partial output.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case MalformedStream:
		return "MalformedStream"
	case UnresolvableFont:
		return "UnresolvableFont"
	case AlignmentFailure:
		return "AlignmentFailure"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case Cancelled:
		return "Cancelled"
	case InternalInvariant:
		return "InternalInvariant"
	default:
		return "Unknown"
	}
}

// Fatal reports whether an error of this kind must abort the page rather
// than accumulate as a warning, per spec.md 7's propagation policy.
func (k Kind) Fatal() bool {
	switch k {
	case MalformedStream, Cancelled, InternalInvariant:
		return true
	default:
		return false
	}
}

// Error wraps an underlying cause with its pipeline Kind and the
// component/operation it occurred at.
type Error struct {
	Kind      Kind
	Component string // "scan", "contentstream", "correlate", "rewrite", "xobject"
	Operation int    // index into the page's operation stream, -1 if not applicable
	Err       error
}

func (e *Error) Error() string {
	if e.Operation >= 0 {
		return fmt.Sprintf("%s: %s at operation %d: %v", e.Component, e.Kind, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Component, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, component string, operation int, err error) *Error {
	return &Error{Kind: kind, Component: component, Operation: operation, Err: err}
}
