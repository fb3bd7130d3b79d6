// Package xobject implements the Form-XObject Recursion Driver: deciding,
// for a `Do /Name` invocation, whether the referenced Form's content
// stream can possibly be affected by the page's redaction areas, and
// recursing into it when so (spec.md 4.7).
package xobject

import (
	"context"
	"fmt"

	"github.com/inkfold/redactpdf/internal/coords"
	"github.com/inkfold/redactpdf/internal/fonts"
)

// Form is a resolved Form XObject: its own coordinate matrix and
// bounding box, its resource dictionary, and its already-decompressed
// content-stream bytes. Resolving the indirect reference, decryption,
// and stream decompression are an external collaborator's job (spec.md
// 6's "Page container" interface).
type Form struct {
	// ID is a stable identity for this XObject, used by the visited-set
	// recursion guard. Two references to the same underlying stream
	// object must report the same ID.
	ID        int
	Matrix    coords.Matrix
	BBox      coords.Rect
	Resources map[string]*fonts.Dict
	Content   []byte
}

// Resolver looks up a Do-invoked resource name against the resource
// dictionary in scope at the call site and reports whether it names a
// Form XObject (Image XObjects and unresolvable names report false).
type Resolver interface {
	ResolveForm(name string) (*Form, bool)
}

// RedactFunc recursively redacts one content stream given the compounded
// CTM and resource scope in effect at its invocation site, returning the
// replacement bytes and any warnings raised while processing it. The
// root `redact` package supplies this callback so this package never
// needs to import the full pipeline (scan/contentstream/glyph/correlate/
// rewrite) itself.
type RedactFunc func(ctx context.Context, content []byte, resources map[string]*fonts.Dict, ctm coords.Matrix, areas []coords.Rect) ([]byte, []string, error)

// Driver walks Do invocations and recurses into Form XObjects whose
// bounding box, mapped through the compounded CTM, overlaps at least one
// current redaction area. A Form referenced from two different call
// sites on the same page is processed independently at each site (spec.md
// 5's "copied on modify"); Driver is created once per page and reused
// across every Do it encounters on that page.
type Driver struct {
	resolver Resolver
	redact   RedactFunc
	visited  map[int]bool
}

func NewDriver(resolver Resolver, redact RedactFunc) *Driver {
	return &Driver{resolver: resolver, redact: redact, visited: make(map[int]bool)}
}

// Recurse handles one `Do /Name` invocation found at a point in the
// content stream where ctm was the CTM already in effect (before the
// Form's own /Matrix is applied — Recurse composes it). areas are the
// page's redaction rectangles, already in the coordinate space that ctm
// maps into.
//
// It returns the Form's replacement content-stream bytes (nil if no
// recursion happened), warnings, and whether a replacement was produced.
// Circular references — a Form that invokes itself, directly or through
// other Forms, while still on the call stack — are detected via a
// visited set scoped to the current recursion branch (not a
// once-ever-globally guard, since two independent call sites may
// legitimately recurse into the same Form) and reported as a warning
// rather than recursing infinitely, per spec.md 4.7.
func (d *Driver) Recurse(ctx context.Context, name string, ctm coords.Matrix, areas []coords.Rect) ([]byte, []string, bool, error) {
	form, ok := d.resolver.ResolveForm(name)
	if !ok {
		return nil, nil, false, nil
	}
	if d.visited[form.ID] {
		return nil, []string{fmt.Sprintf("xobject %q: circular reference skipped", name)}, false, nil
	}

	compoundCTM := form.Matrix.Multiply(ctm)
	mappedBBox := coords.TransformRect(compoundCTM, form.BBox)
	if !overlapsAny(mappedBBox, areas) {
		return nil, nil, false, nil
	}

	d.visited[form.ID] = true
	defer delete(d.visited, form.ID)

	out, warnings, err := d.redact(ctx, form.Content, form.Resources, compoundCTM, areas)
	if err != nil {
		return nil, warnings, false, err
	}
	return out, warnings, true, nil
}

func overlapsAny(rect coords.Rect, areas []coords.Rect) bool {
	for _, a := range areas {
		if rect.Intersects(a) {
			return true
		}
	}
	return false
}
