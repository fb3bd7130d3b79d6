// Package glyph expands a text-showing operation's raw operand bytes into
// an ordered sequence of positioned glyphs, the Glyph Decoder of the
// redaction pipeline (spec.md 4.4).
package glyph

import (
	"errors"

	"github.com/inkfold/redactpdf/internal/contentstream"
	"github.com/inkfold/redactpdf/internal/coords"
	"github.com/inkfold/redactpdf/internal/fonts"
)

// Glyph is one decoded character from a text-showing operation: its raw
// code bytes, resolved CID and Unicode, where it came from in the
// operation's operand list, and its computed geometry.
type Glyph struct {
	Bytes   []byte
	CID     int
	Unicode string

	// OperandIndex locates the source operand: for Tj/'/" it is always 0
	// (Tj, ') or 2 ("), the string operand's own index in op.Operands; for
	// TJ it is the glyph's string's index within the TJ array.
	OperandIndex int
	// ByteOffset is this glyph's starting offset within its source
	// string's raw bytes, letting the Rewriter slice around it.
	ByteOffset int
	IsHex      bool

	// Width is the glyph's advance in text-space units (already scaled by
	// font size, char/word spacing, and horizontal scaling).
	Width float64
	// AdvanceStart is the running text-space displacement from the
	// operation's first glyph up to (not including) this glyph: the sum
	// of every prior glyph's Width plus every prior TrailingAdjust's
	// shift. The Rewriter uses it to compute an absolute Tm for a kept
	// run without re-deriving the whole operation's arithmetic.
	AdvanceStart float64
	// TrailingAdjust is the raw TJ array number (thousandths of an em)
	// that followed this glyph in the source array, or 0 if none. The
	// Rewriter re-emits it verbatim so kept glyphs keep their kerning.
	TrailingAdjust float64

	// BBox is the glyph's bounding box in content-stream coordinates:
	// [advance start, baseline+descent] to [advance start+Width,
	// baseline+ascent], per spec.md 4.4.
	BBox coords.Rect

	Font *fonts.Font
}

// Decode expands op (a ShowText operation) into its glyph sequence using
// the font and text state the Walker has accumulated so far. Callers must
// call w.Step(op) before Decode for '/" operators (so Decode sees the
// T*-equivalent move already applied) and must call w.Advance(totalAdvance)
// afterward for every show operator, since Decode itself never mutates w —
// it only reads the text matrix in effect at the moment it runs.
//
// An unresolved font (spec.md 4.3) is not an error: it yields an empty
// glyph sequence, since such an operation can never be selected for
// removal.
func Decode(op contentstream.Operation, w *contentstream.Walker, reg *fonts.Registry, resources map[string]*fonts.Dict) (glyphs []Glyph, totalAdvance float64, err error) {
	if !op.IsShowText() {
		return nil, 0, nil
	}
	font, err := reg.Resolve(w.TS.FontName, resources[w.TS.FontName])
	if err != nil {
		var unresolvable *fonts.UnresolvableFontError
		if errors.As(err, &unresolvable) {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	runs, err := operandRuns(op)
	if err != nil {
		return nil, 0, err
	}

	d := &decoder{
		font:    font,
		ts:      w.TS,
		toSpace: w.TS.TextMatrix.Multiply(w.GS.CTM),
	}
	for _, run := range runs {
		if run.isAdjust {
			d.applyAdjust(run.adjust, &glyphs)
			continue
		}
		glyphs = append(glyphs, d.decodeString(run)...)
	}
	return glyphs, d.advancePos, nil
}

// stringRun is one operand-array element relevant to glyph decoding: either
// a string to decode or a TJ numeric adjustment.
type stringRun struct {
	operandIndex int
	bytes        []byte
	isHex        bool
	isAdjust     bool
	adjust       float64
}

func operandRuns(op contentstream.Operation) ([]stringRun, error) {
	switch op.Operator {
	case "Tj", "'":
		s, ok := stringOperand(op.Operands, 0)
		if !ok {
			return nil, nil
		}
		return []stringRun{s}, nil
	case `"`:
		s, ok := stringOperand(op.Operands, 2)
		if !ok {
			return nil, nil
		}
		return []stringRun{s}, nil
	case "TJ":
		if len(op.Operands) == 0 || op.Operands[0].Kind != contentstream.OperandArray {
			return nil, nil
		}
		var runs []stringRun
		for i, el := range op.Operands[0].Array {
			switch el.Kind {
			case contentstream.OperandString:
				runs = append(runs, stringRun{operandIndex: i, bytes: el.Str, isHex: el.IsHex})
			case contentstream.OperandNumber:
				runs = append(runs, stringRun{isAdjust: true, adjust: el.Number})
			}
		}
		return runs, nil
	default:
		return nil, nil
	}
}

func stringOperand(ops []contentstream.Operand, idx int) (stringRun, bool) {
	if idx >= len(ops) || ops[idx].Kind != contentstream.OperandString {
		return stringRun{}, false
	}
	return stringRun{operandIndex: idx, bytes: ops[idx].Str, isHex: ops[idx].IsHex}, true
}

// decoder carries the per-operation state needed to turn string runs into
// positioned glyphs: the font, the effective text state, and the
// text-space-to-content-space transform in effect when the operation began
// (text-space positions accumulate via advancePos as glyphs are consumed,
// but the transform itself is fixed for the whole operation since Tm does
// not change mid-show).
type decoder struct {
	font       *fonts.Font
	ts         *contentstream.TextState
	toSpace    coords.Matrix
	advancePos float64
}

func (d *decoder) decodeString(run stringRun) []Glyph {
	codes := d.font.Decode(run.bytes)
	glyphs := make([]Glyph, 0, len(codes))
	offset := 0
	for _, c := range codes {
		width := d.glyphWidth(c)
		g := Glyph{
			Bytes:        c.Bytes,
			CID:          c.Value,
			Unicode:      d.font.Unicode(c),
			OperandIndex: run.operandIndex,
			ByteOffset:   offset,
			IsHex:        run.isHex,
			Width:        width,
			AdvanceStart: d.advancePos,
			BBox:         d.glyphBBox(width),
			Font:         d.font,
		}
		glyphs = append(glyphs, g)
		offset += len(c.Bytes)
		d.advancePos += width
	}
	return glyphs
}

func (d *decoder) glyphWidth(c fonts.Code) float64 {
	hScale := d.ts.HScale / 100
	tw := 0.0
	if d.font.IsSpace(c) {
		tw = d.ts.WordSpace
	}
	return (d.font.Width(c)/1000*d.ts.FontSize + d.ts.CharSpace + tw) * hScale
}

func (d *decoder) glyphBBox(width float64) coords.Rect {
	fontSize := d.ts.FontSize
	rect := coords.Rect{
		MinX: d.advancePos,
		MaxX: d.advancePos + width,
		MinY: d.ts.Rise + d.font.Descent()*fontSize,
		MaxY: d.ts.Rise + d.font.Ascent()*fontSize,
	}
	return coords.TransformRect(d.toSpace, rect)
}

// applyAdjust folds a TJ numeric adjustment into the running advance
// position and records it on the most recently decoded glyph, per spec.md
// 4.4's "trailing-adjust" rule.
func (d *decoder) applyAdjust(n float64, glyphs *[]Glyph) {
	hScale := d.ts.HScale / 100
	shift := -n / 1000 * d.ts.FontSize * hScale
	d.advancePos += shift
	if len(*glyphs) > 0 {
		(*glyphs)[len(*glyphs)-1].TrailingAdjust = n
	}
}
