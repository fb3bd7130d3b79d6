// Package correlate aligns externally extracted letters against decoded
// glyphs and decides which glyphs fall inside a redaction rectangle: the
// Correlator of the redaction pipeline (spec.md 4.5).
package correlate

import (
	"fmt"

	"github.com/inkfold/redactpdf/internal/coords"
	"github.com/inkfold/redactpdf/internal/glyph"
)

// Letter is one externally extracted character: its Unicode text and its
// bounding box in visual (post-rotation) space, as supplied by the
// trusted letter-extraction engine this module treats as an external
// collaborator.
type Letter struct {
	Unicode string
	BBox    coords.Rect
}

// Operation is the slice of a page's decoded operation stream the
// Correlator needs: an identifier stable across the whole pipeline and
// its ordered glyph sequence, in content-stream coordinates.
type Operation struct {
	ID     int
	Glyphs []glyph.Glyph
}

// Strategy selects how a glyph's geometry is tested against a redaction
// rectangle (spec.md 4.5, "Glyph-removal strategies").
type Strategy int

const (
	CenterPoint Strategy = iota
	AnyOverlap
	FullyContained
)

// Tolerance is the fixed inflation applied to an operation's bounding box
// before testing intersection against a redaction rectangle (spec.md 4.5
// step 1): "inflated by a fixed tolerance of 2 points."
const Tolerance = 2.0

// LookAhead bounds how far the two-pointer alignment searches for a
// resynchronization point before declaring AlignmentFailure (spec.md 4.5,
// "Failure modes").
const LookAhead = 4

// Config parameterizes one correlation pass over a single page.
type Config struct {
	Strategy    Strategy
	Rotation    coords.Rotation
	MediaWidth  float64
	MediaHeight float64
}

// Plan is the Correlator's output: which (operation, glyph-index) pairs to
// remove, which operations must be removed in their entirety because
// alignment could not proceed, and any non-fatal warnings raised along
// the way.
type Plan struct {
	Glyphs   map[int]map[int]bool
	WholeOps map[int]bool
	Warnings []string
}

func newPlan() *Plan {
	return &Plan{Glyphs: make(map[int]map[int]bool), WholeOps: make(map[int]bool)}
}

func (p *Plan) markGlyph(opID, glyphIdx int) {
	m, ok := p.Glyphs[opID]
	if !ok {
		m = make(map[int]bool)
		p.Glyphs[opID] = m
	}
	m[glyphIdx] = true
}

// IsMarked reports whether glyphIdx of operation opID was selected for
// removal, either directly or via a whole-operation fallback.
func (p *Plan) IsMarked(opID, glyphIdx int) bool {
	if p.WholeOps[opID] {
		return true
	}
	return p.Glyphs[opID][glyphIdx]
}

func (p *Plan) warnf(format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

// Correlate runs the full match algorithm of spec.md 4.5 over one page:
// transforms the visual-space redaction rectangles into content-stream
// space, filters to the operations whose geometry can possibly overlap
// one of them, aligns each surviving operation's glyph sequence against
// the page's external letters by stream position, and marks glyphs for
// removal under the configured strategy.
func Correlate(ops []Operation, letters []Letter, visualRects []coords.Rect, cfg Config) *Plan {
	plan := newPlan()

	toContent := coords.VisualToContent(cfg.Rotation, cfg.MediaWidth, cfg.MediaHeight)
	contentRects := make([]coords.Rect, len(visualRects))
	for i, r := range visualRects {
		contentRects[i] = coords.TransformRect(toContent, r).Normalize()
	}

	candidates := selectCandidateOperations(ops, contentRects)
	if len(candidates) == 0 {
		return plan
	}

	letterRunes, letterIdx := normalizeLetters(letters)
	glyphRunes, glyphLocs := normalizeOperationGlyphs(candidates)

	pairs, failedOps := align(letterRunes, letterIdx, glyphRunes, glyphLocs)
	for _, opID := range failedOps {
		plan.warnf("operation %d: alignment diverged beyond a %d-glyph look-ahead window", opID, LookAhead)
		if operationOverlaps(opID, candidates, contentRects) {
			plan.WholeOps[opID] = true
		}
	}

	byID := make(map[int]Operation, len(candidates))
	for _, op := range candidates {
		byID[op.ID] = op
	}

	for _, pr := range pairs {
		op, ok := byID[pr.opID]
		if !ok || pr.glyphIdx >= len(op.Glyphs) {
			continue
		}
		g := op.Glyphs[pr.glyphIdx]
		letter := letters[pr.letterIdx]
		if glyphSelected(g, letter, contentRects, toContent, cfg.Strategy) {
			plan.markGlyph(pr.opID, pr.glyphIdx)
		}
	}
	return plan
}

// selectCandidateOperations implements step 1: only operations whose
// glyph-union bounding box, inflated by Tolerance, intersects at least one
// transformed redaction rectangle are considered at all.
func selectCandidateOperations(ops []Operation, contentRects []coords.Rect) []Operation {
	if len(contentRects) == 0 {
		return nil
	}
	bounds := pageBounds(ops, contentRects)
	qt := newQuadTree(bounds, 8)
	type indexed struct {
		op   int
		rect coords.Rect
	}
	var entries []indexed
	for i, op := range ops {
		bb, ok := unionBBox(op.Glyphs)
		if !ok {
			continue
		}
		bb = bb.Inflate(Tolerance)
		qt.insert(bb, len(entries))
		entries = append(entries, indexed{op: i, rect: bb})
	}
	var out []Operation
	seen := make(map[int]bool)
	for _, r := range contentRects {
		for _, idx := range qt.query(r) {
			if idx < 0 || idx >= len(entries) {
				continue
			}
			e := entries[idx]
			if !e.rect.Intersects(r) || seen[e.op] {
				continue
			}
			seen[e.op] = true
			out = append(out, ops[e.op])
		}
	}
	return out
}

func pageBounds(ops []Operation, rects []coords.Rect) coords.Rect {
	var bounds coords.Rect
	first := true
	grow := func(r coords.Rect) {
		if first {
			bounds = r
			first = false
			return
		}
		if r.MinX < bounds.MinX {
			bounds.MinX = r.MinX
		}
		if r.MinY < bounds.MinY {
			bounds.MinY = r.MinY
		}
		if r.MaxX > bounds.MaxX {
			bounds.MaxX = r.MaxX
		}
		if r.MaxY > bounds.MaxY {
			bounds.MaxY = r.MaxY
		}
	}
	for _, op := range ops {
		if bb, ok := unionBBox(op.Glyphs); ok {
			grow(bb)
		}
	}
	for _, r := range rects {
		grow(r)
	}
	if first {
		return coords.Rect{}
	}
	return bounds
}

func unionBBox(glyphs []glyph.Glyph) (coords.Rect, bool) {
	if len(glyphs) == 0 {
		return coords.Rect{}, false
	}
	bb := glyphs[0].BBox.Normalize()
	for _, g := range glyphs[1:] {
		gb := g.BBox.Normalize()
		if gb.MinX < bb.MinX {
			bb.MinX = gb.MinX
		}
		if gb.MinY < bb.MinY {
			bb.MinY = gb.MinY
		}
		if gb.MaxX > bb.MaxX {
			bb.MaxX = gb.MaxX
		}
		if gb.MaxY > bb.MaxY {
			bb.MaxY = gb.MaxY
		}
	}
	return bb, true
}

func operationOverlaps(opID int, ops []Operation, contentRects []coords.Rect) bool {
	for _, op := range ops {
		if op.ID != opID {
			continue
		}
		bb, ok := unionBBox(op.Glyphs)
		if !ok {
			return false
		}
		bb = bb.Inflate(Tolerance)
		for _, r := range contentRects {
			if bb.Intersects(r) {
				return true
			}
		}
	}
	return false
}

// glyphSelected applies the active glyph-removal strategy. CenterPoint
// tests the external letter's visual center, transformed into
// content-stream space; AnyOverlap and FullyContained test the decoded
// glyph's own content-space bbox.
func glyphSelected(g glyph.Glyph, letter Letter, contentRects []coords.Rect, toContent coords.Matrix, strategy Strategy) bool {
	for _, r := range contentRects {
		switch strategy {
		case AnyOverlap:
			if g.BBox.Intersects(r) {
				return true
			}
		case FullyContained:
			gb := g.BBox.Normalize()
			if gb.MinX >= r.MinX && gb.MaxX <= r.MaxX && gb.MinY >= r.MinY && gb.MaxY <= r.MaxY {
				return true
			}
		default: // CenterPoint
			center := toContent.Transform(letter.BBox.Center())
			if r.Contains(center) {
				return true
			}
		}
	}
	return false
}
