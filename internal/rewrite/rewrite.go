// Package rewrite emits the replacement content-stream bytes for a
// text-showing operation once the Correlator has decided which glyphs to
// remove: the Rewriter of the redaction pipeline (spec.md 4.6). It is
// grounded on the operand-construction shape of the teacher's
// contentstream/editor/editor_impl.go `encodeOp` (TJ-array construction,
// width/adjust bookkeeping), generalized from "encode newly shaped text"
// to "re-encode a kept subsequence of already-decoded glyphs".
package rewrite

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/inkfold/redactpdf/internal/contentstream"
	"github.com/inkfold/redactpdf/internal/coords"
	"github.com/inkfold/redactpdf/internal/fonts"
	"github.com/inkfold/redactpdf/internal/glyph"
)

// MarkerColor is an RGB fill color in [0,1]^3 for the visual redaction
// marker (spec.md 6, `marker_color`).
type MarkerColor struct{ R, G, B float64 }

// Op rewrites one text-showing operation given which of its glyphs are
// marked for removal. marked is keyed by each glyph's index within
// glyphs (local to this operation, matching internal/glyph.Decode's
// output order).
//
// startMatrix is the text matrix in effect at the very start of op —
// after any implicit line-move for '/"' has already been applied to it,
// per internal/glyph.Decode's calling convention, so its callers must
// capture w.TS.TextMatrix after w.Step(op) and before decoding.
//
// Op returns the replacement byte fragment, or nil if every glyph is
// marked (the caller still preserves the enclosing BT/ET frame).
func Op(op contentstream.Operation, glyphs []glyph.Glyph, marked map[int]bool, startMatrix coords.Matrix) []byte {
	runs := splitRuns(glyphs, marked)
	if len(runs) == 0 {
		return nil
	}
	var out bytes.Buffer
	for _, run := range runs {
		dx := glyphs[run[0]].AdvanceStart
		tm := coords.Translate(dx, 0).Multiply(startMatrix)
		writeTm(&out, tm)
		writeShow(&out, op.Operator, glyphs, run)
	}
	return out.Bytes()
}

// splitRuns partitions glyph indices into maximal runs of consecutive
// kept (unmarked) glyphs, per spec.md 4.6's segmentation rule.
func splitRuns(glyphs []glyph.Glyph, marked map[int]bool) [][]int {
	var runs [][]int
	var current []int
	for i := range glyphs {
		if marked[i] {
			if len(current) > 0 {
				runs = append(runs, current)
				current = nil
			}
			continue
		}
		current = append(current, i)
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	return runs
}

func writeTm(out *bytes.Buffer, m coords.Matrix) {
	fmt.Fprintf(out, "%s %s %s %s %s %s Tm\n",
		formatNumber(m[0]), formatNumber(m[1]), formatNumber(m[2]),
		formatNumber(m[3]), formatNumber(m[4]), formatNumber(m[5]))
}

// writeShow always emits the kept glyphs as Tj or TJ, never as ' or ":
// per spec.md 4.6, a partial survivor of a '/" operation demotes to the
// equivalent T*-then-Tj sequence, and the Tm already written by Op
// subsumes that line move, so no separate operator is needed here.
func writeShow(out *bytes.Buffer, operator string, glyphs []glyph.Glyph, run []int) {
	if operator == "TJ" {
		writeTJ(out, glyphs, run)
		return
	}
	writeTj(out, glyphs, run)
}

func writeTj(out *bytes.Buffer, glyphs []glyph.Glyph, run []int) {
	b, hex := concatBytes(glyphs, run)
	writeString(out, b, hex)
	out.WriteString(" Tj\n")
}

func writeTJ(out *bytes.Buffer, glyphs []glyph.Glyph, run []int) {
	chunks := groupByOperand(glyphs, run)
	out.WriteByte('[')
	for i, chunk := range chunks {
		b, hex := concatBytes(glyphs, chunk)
		writeString(out, b, hex)
		if i < len(chunks)-1 {
			last := glyphs[chunk[len(chunk)-1]]
			if last.TrailingAdjust != 0 {
				fmt.Fprintf(out, " %s", formatNumber(last.TrailingAdjust))
			}
		}
	}
	out.WriteString("] TJ\n")
}

// groupByOperand splits a run into the contiguous sub-groups that shared
// a source operand (sub-string) in the original operation: a run's glyph
// indices are already stream-consecutive, so a change in OperandIndex is
// always a genuine original substring boundary.
func groupByOperand(glyphs []glyph.Glyph, run []int) [][]int {
	var chunks [][]int
	for _, idx := range run {
		if n := len(chunks); n > 0 {
			last := chunks[n-1]
			if glyphs[last[len(last)-1]].OperandIndex == glyphs[idx].OperandIndex {
				chunks[n-1] = append(last, idx)
				continue
			}
		}
		chunks = append(chunks, []int{idx})
	}
	return chunks
}

// concatBytes reassembles a chunk's raw code bytes. A composite-font
// glyph is always re-emitted as a two-byte hex code regardless of its
// source encoding, per spec.md 4.6's "CID fonts: always emit hex strings
// with two-byte codes"; a chunk mixing hex and literal source glyphs
// prefers hex, per the same section.
func concatBytes(glyphs []glyph.Glyph, idxs []int) ([]byte, bool) {
	var buf []byte
	hex := false
	for _, idx := range idxs {
		g := glyphs[idx]
		if g.Font != nil && g.Font.Kind == fonts.KindComposite {
			buf = append(buf, byte(g.CID>>8), byte(g.CID))
			hex = true
			continue
		}
		if g.IsHex {
			hex = true
		}
		buf = append(buf, g.Bytes...)
	}
	return buf, hex
}

func writeString(out *bytes.Buffer, b []byte, hex bool) {
	if hex {
		out.WriteByte('<')
		for _, c := range b {
			fmt.Fprintf(out, "%02X", c)
		}
		out.WriteByte('>')
		return
	}
	out.WriteByte('(')
	for _, c := range b {
		switch {
		case c == '(' || c == ')' || c == '\\':
			out.WriteByte('\\')
			out.WriteByte(c)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(out, "\\%03o", c)
		default:
			out.WriteByte(c)
		}
	}
	out.WriteByte(')')
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Marker emits one q/Q-scoped filled-rectangle group over rect (already
// in content-stream coordinates), per spec.md 4.6's visual marker rule.
func Marker(rect coords.Rect, color MarkerColor) []byte {
	r := rect.Normalize()
	var out bytes.Buffer
	fmt.Fprintf(&out, "q %s %s %s rg %s %s %s %s re f Q\n",
		formatNumber(color.R), formatNumber(color.G), formatNumber(color.B),
		formatNumber(r.MinX), formatNumber(r.MinY), formatNumber(r.Width()), formatNumber(r.Height()))
	return out.Bytes()
}
