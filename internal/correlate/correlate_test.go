package correlate

import (
	"testing"

	"github.com/inkfold/redactpdf/internal/coords"
	"github.com/inkfold/redactpdf/internal/glyph"
)

func gl(unicode string, minX, maxX, y float64) glyph.Glyph {
	return glyph.Glyph{
		Unicode: unicode,
		BBox:    coords.Rect{MinX: minX, MaxX: maxX, MinY: y - 2, MaxY: y + 8},
	}
}

func TestCorrelateMarksGlyphsInsideRect(t *testing.T) {
	ops := []Operation{
		{ID: 1, Glyphs: []glyph.Glyph{
			gl("H", 0, 10, 100),
			gl("e", 10, 20, 100),
			gl("l", 20, 30, 100),
			gl("l", 30, 40, 100),
			gl("o", 40, 50, 100),
		}},
	}
	letters := []Letter{
		{Unicode: "H", BBox: coords.Rect{MinX: 0, MaxX: 10, MinY: 98, MaxY: 108}},
		{Unicode: "e", BBox: coords.Rect{MinX: 10, MaxX: 20, MinY: 98, MaxY: 108}},
		{Unicode: "l", BBox: coords.Rect{MinX: 20, MaxX: 30, MinY: 98, MaxY: 108}},
		{Unicode: "l", BBox: coords.Rect{MinX: 30, MaxX: 40, MinY: 98, MaxY: 108}},
		{Unicode: "o", BBox: coords.Rect{MinX: 40, MaxX: 50, MinY: 98, MaxY: 108}},
	}
	// Redaction box covers only "ell" (glyphs at index 1..3).
	rect := coords.Rect{MinX: 11, MaxX: 39, MinY: 90, MaxY: 115}

	plan := Correlate(ops, letters, []coords.Rect{rect}, Config{Strategy: AnyOverlap})

	for _, idx := range []int{1, 2, 3} {
		if !plan.IsMarked(1, idx) {
			t.Errorf("glyph %d should be marked for removal", idx)
		}
	}
	for _, idx := range []int{0, 4} {
		if plan.IsMarked(1, idx) {
			t.Errorf("glyph %d should NOT be marked", idx)
		}
	}
	if len(plan.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", plan.Warnings)
	}
}

func TestCorrelateNoOverlapProducesEmptyPlan(t *testing.T) {
	ops := []Operation{
		{ID: 1, Glyphs: []glyph.Glyph{gl("x", 0, 10, 100)}},
	}
	letters := []Letter{{Unicode: "x", BBox: coords.Rect{MinX: 0, MaxX: 10, MinY: 98, MaxY: 108}}}
	rect := coords.Rect{MinX: 500, MaxX: 600, MinY: 500, MaxY: 600}

	plan := Correlate(ops, letters, []coords.Rect{rect}, Config{Strategy: AnyOverlap})
	if len(plan.Glyphs) != 0 || len(plan.WholeOps) != 0 {
		t.Errorf("expected empty plan, got %+v", plan)
	}
}

func TestCorrelateAlignmentFailureFallsBackToWholeOperation(t *testing.T) {
	ops := []Operation{
		{ID: 7, Glyphs: []glyph.Glyph{
			gl("Q", 0, 10, 100),
			gl("Z", 10, 20, 100),
			gl("X", 20, 30, 100),
		}},
	}
	// Letters bear no resemblance to the operation's glyphs at all, so the
	// look-ahead window can never resynchronize; the whole operation must
	// be treated as overlapping and marked in full.
	letters := []Letter{
		{Unicode: "1", BBox: coords.Rect{MinX: 0, MaxX: 10, MinY: 98, MaxY: 108}},
		{Unicode: "2", BBox: coords.Rect{MinX: 10, MaxX: 20, MinY: 98, MaxY: 108}},
		{Unicode: "3", BBox: coords.Rect{MinX: 20, MaxX: 30, MinY: 98, MaxY: 108}},
	}
	rect := coords.Rect{MinX: -1, MaxX: 31, MinY: 90, MaxY: 115}

	plan := Correlate(ops, letters, []coords.Rect{rect}, Config{Strategy: AnyOverlap})

	if !plan.WholeOps[7] {
		t.Errorf("expected operation 7 to be marked as a whole-operation fallback")
	}
	if len(plan.Warnings) == 0 {
		t.Errorf("expected an alignment-failure warning")
	}
	if !plan.IsMarked(7, 0) || !plan.IsMarked(7, 2) {
		t.Errorf("whole-operation fallback should mark every glyph index as removed")
	}
}

func TestAlignHandlesAliasAndNFKCEquivalence(t *testing.T) {
	letters := []Letter{
		{Unicode: "’"}, // typographic right single quote
	}
	ops := []Operation{
		{ID: 1, Glyphs: []glyph.Glyph{{Unicode: "'"}}}, // plain apostrophe
	}
	letterRunes, letterIdx := normalizeLetters(letters)
	glyphRunes, glyphLocs := normalizeOperationGlyphs(ops)
	pairs, failed := align(letterRunes, letterIdx, glyphRunes, glyphLocs)

	if len(failed) != 0 {
		t.Fatalf("expected no alignment failures, got %v", failed)
	}
	if len(pairs) != 1 || pairs[0].opID != 1 || pairs[0].glyphIdx != 0 {
		t.Fatalf("expected a single matched pair, got %+v", pairs)
	}
}

func TestAlignResynchronizesWithinLookAhead(t *testing.T) {
	// Glyph side has one extra junk rune (e.g. a ligature component) that
	// the letter side never saw; alignment should skip past it within the
	// look-ahead window rather than failing the whole operation.
	letterRunes := []rune("abc")
	letterIdx := []int{0, 1, 2}
	glyphRunes := []rune("aXbc")
	glyphLocs := []glyphLoc{{opID: 1, glyphIdx: 0}, {opID: 1, glyphIdx: 1}, {opID: 1, glyphIdx: 2}, {opID: 1, glyphIdx: 3}}

	pairs, failed := align(letterRunes, letterIdx, glyphRunes, glyphLocs)
	if len(failed) != 0 {
		t.Fatalf("expected resynchronization without failure, got failed=%v", failed)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 matched pairs, got %+v", pairs)
	}
}
