// Package sanitize is the minimal, concrete ancillary-source adapter: it
// drops annotations that overlap a redaction area and blanks the
// document-level Info/XMP metadata fields a redaction pass must not leave
// behind. Everything it operates on mirrors the teacher's ir/semantic.go
// value shapes field-for-field (Annotation, DocumentInfo, XMPMetadata),
// since those are exactly the ancillary sources named as external
// collaborators, not reinvented types.
//
// This package intentionally does not attempt PII pattern matching, field
// redaction heuristics, or any of the ~25 annotation subtypes the teacher's
// IR models (Link, Widget, Highlight, Stamp, ...): sanitization here is
// "does this annotation's rectangle touch a redacted area" and "blank this
// string/byte field", nothing more. A caller needing richer policy
// implements the root package's AnnotationSanitizer/MetadataSanitizer
// interfaces directly against its own container model instead.
package sanitize

import "github.com/inkfold/redactpdf/internal/coords"

// Rectangle is a PDF rectangle in default user space, named after the
// teacher's ir/semantic.go Rectangle (LLX/LLY/URX/URY, not Min/Max) since
// annotation geometry in that IR is expressed the same way the /Rect key
// is in the PDF file itself.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

func (r Rectangle) toCoords() coords.Rect {
	return coords.Rect{MinX: r.LLX, MinY: r.LLY, MaxX: r.URX, MaxY: r.URY}
}

// Annotation is the subset of the teacher's ir/semantic.go Annotation
// interface this package needs: a subtype label (carried through
// unexamined) and its rectangle.
type Annotation interface {
	Type() string
	Rect() Rectangle
}

// BaseAnnotation is a minimal, concrete Annotation a caller can embed,
// mirroring the teacher's BaseAnnotation fields that matter for
// redaction-time sanitization.
type BaseAnnotation struct {
	Subtype  string
	RectVal  Rectangle
	Contents string
}

func (a BaseAnnotation) Type() string    { return a.Subtype }
func (a BaseAnnotation) Rect() Rectangle { return a.RectVal }

// DocumentInfo models the /Info dictionary values, field-for-field with
// the teacher's ir/semantic.go DocumentInfo.
type DocumentInfo struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
	Trapped  string
	Keywords []string
}

// XMPMetadata models the document's XMP metadata stream.
type XMPMetadata struct {
	Raw []byte
}

// Annotations returns the annotations whose rectangle does not intersect
// any redaction area, along with the count dropped. An annotation
// touching an area is assumed to reference or annotate the redacted
// content (a comment bubble, a highlight, a link target) and so cannot
// survive the redaction; partial overlap is treated the same as full
// overlap since there is no sub-annotation granularity to preserve.
func Annotations(annotations []Annotation, areas []coords.Rect) (kept []Annotation, removed int) {
	for _, a := range annotations {
		if overlapsAny(a.Rect().toCoords(), areas) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	return kept, removed
}

func overlapsAny(rect coords.Rect, areas []coords.Rect) bool {
	for _, a := range areas {
		if rect.Intersects(a) {
			return true
		}
	}
	return false
}

// Info returns a DocumentInfo with every field blanked. Redaction has no
// way to know whether the document's author, title, or keywords leak the
// same information removed from the page content, so the conservative
// default is to clear all of it rather than guess which fields are safe.
func Info(*DocumentInfo) *DocumentInfo {
	return &DocumentInfo{}
}

// Metadata returns an XMPMetadata with its raw stream cleared, for the
// same reason Info blanks every field: an XMP packet commonly duplicates
// Info fields (dc:title, dc:creator, ...) and sometimes embeds the
// original document's full text history, so it cannot be left untouched.
func Metadata(*XMPMetadata) *XMPMetadata {
	return &XMPMetadata{}
}
