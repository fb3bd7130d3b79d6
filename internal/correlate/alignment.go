package correlate

import (
	"golang.org/x/text/unicode/norm"
)

// aliasTable collapses visually/semantically equivalent runes that NFKC
// normalization alone does not unify — typographic apostrophes and
// dashes, and the various Unicode space widths a PDF's ToUnicode CMap or
// an extraction engine might independently choose to emit for the same
// visual character (spec.md 4.5, "a small set of explicit aliases for
// apostrophes, dashes, and spaces").
var aliasTable = map[rune]rune{
	'‘': '\'', '’': '\'', 'ʼ': '\'', '`': '\'',
	'–': '-', '—': '-', '−': '-',
	' ': ' ', ' ': ' ', ' ': ' ', ' ': ' ', ' ': ' ',
}

// normalizeText returns the canonical comparison form of s: NFKC, then
// alias-table folding rune-by-rune.
func normalizeText(s string) string {
	s = norm.NFKC.String(s)
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if a, ok := aliasTable[r]; ok {
			r = a
		}
		out = append(out, r)
	}
	return string(out)
}

// glyphLoc identifies one rune's source glyph: which surviving operation
// and which glyph index within it produced it.
type glyphLoc struct {
	opID     int
	glyphIdx int
}

// normalizeLetters concatenates the page's external letters into a single
// normalized rune sequence, in stream order, alongside a parallel slice
// mapping each rune back to the index of the Letter that produced it (a
// letter can expand into more than one rune after normalization).
func normalizeLetters(letters []Letter) (runes []rune, letterIdx []int) {
	for i, l := range letters {
		for _, r := range normalizeText(l.Unicode) {
			runes = append(runes, r)
			letterIdx = append(letterIdx, i)
		}
	}
	return runes, letterIdx
}

// normalizeOperationGlyphs concatenates every candidate operation's glyph
// Unicode into a single normalized rune sequence, recording which glyph
// produced each rune so alignment pairs can be mapped back. A glyph whose
// Unicode decodes to more than one rune (ligatures, combining marks)
// contributes one glyphLoc per rune — spec.md 4.5 explicitly allows this
// many-to-one/one-to-many relationship between letters and glyphs.
func normalizeOperationGlyphs(ops []Operation) (runes []rune, locs []glyphLoc) {
	for _, op := range ops {
		for gi, g := range op.Glyphs {
			for _, r := range normalizeText(g.Unicode) {
				runes = append(runes, r)
				locs = append(locs, glyphLoc{opID: op.ID, glyphIdx: gi})
			}
		}
	}
	return runes, locs
}

// pair is one resolved (letter, glyph) correspondence. letterIdx indexes
// the original letters slice passed to Correlate.
type pair struct {
	letterIdx int
	opID      int
	glyphIdx  int
}

// align runs the streaming two-pointer match of spec.md 4.5 step 2 over
// the normalized rune sequences, resynchronizing within a LookAhead
// window on mismatch. When no resynchronization point is found within the
// window, the aligner abandons the glyph side's current operation,
// records it as failed, and skips past it on the glyph side — staying put
// on the letter side so a later, unrelated operation can still
// resynchronize against it.
func align(letterRunes []rune, letterIdx []int, glyphRunes []rune, glyphLocs []glyphLoc) (pairs []pair, failedOps []int) {
	failedSet := make(map[int]bool)

	li, gi := 0, 0
	for li < len(letterRunes) && gi < len(glyphRunes) {
		if letterRunes[li] == glyphRunes[gi] {
			loc := glyphLocs[gi]
			pairs = append(pairs, pair{letterIdx: letterIdx[li], opID: loc.opID, glyphIdx: loc.glyphIdx})
			li++
			gi++
			continue
		}
		if dl, dg, ok := resync(letterRunes, glyphRunes, li, gi, LookAhead); ok {
			li += dl
			gi += dg
			continue
		}
		opID := glyphLocs[gi].opID
		if !failedSet[opID] {
			failedSet[opID] = true
			failedOps = append(failedOps, opID)
		}
		for gi < len(glyphRunes) && glyphLocs[gi].opID == opID {
			gi++
		}
	}
	return pairs, failedOps
}

// resync tries every (dl, dg) offset pair with 1 <= dl+dg <= 2*window,
// smallest total displacement first, and returns the first one where the
// sequences agree again.
func resync(letterRunes, glyphRunes []rune, li, gi, window int) (dl, dg int, ok bool) {
	for total := 1; total <= window*2; total++ {
		for dl = 0; dl <= total; dl++ {
			dg = total - dl
			if dl > window || dg > window {
				continue
			}
			nl, ng := li+dl, gi+dg
			if nl >= len(letterRunes) || ng >= len(glyphRunes) {
				continue
			}
			if letterRunes[nl] == glyphRunes[ng] {
				return dl, dg, true
			}
		}
	}
	return 0, 0, false
}
