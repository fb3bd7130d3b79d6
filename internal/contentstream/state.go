package contentstream

import (
	"errors"

	"github.com/inkfold/redactpdf/internal/coords"
)

// GraphicsState tracks the q/Q-scoped portion of the graphics state this
// module cares about: just the CTM. Color, line style, and clipping state
// are irrelevant to locating and removing glyphs.
type GraphicsState struct {
	CTM   coords.Matrix
	stack []coords.Matrix
}

func NewGraphicsState() *GraphicsState {
	return &GraphicsState{CTM: coords.Identity()}
}

func (gs *GraphicsState) Save() { gs.stack = append(gs.stack, gs.CTM) }

func (gs *GraphicsState) Restore() error {
	n := len(gs.stack)
	if n == 0 {
		return errors.New("contentstream: q/Q stack underflow")
	}
	gs.CTM = gs.stack[n-1]
	gs.stack = gs.stack[:n-1]
	return nil
}

// TextState tracks everything BT...ET scopes: the text and text-line
// matrices plus the parameters that feed glyph displacement (font, size,
// character/word spacing, horizontal scaling, leading, rise, render mode).
type TextState struct {
	InTextObject   bool
	FontName       string
	FontSize       float64
	CharSpace      float64
	WordSpace      float64
	HScale         float64 // Tz operand, percent; 100 = no scaling
	Leading        float64
	RenderMode     int
	Rise           float64
	TextMatrix     coords.Matrix
	TextLineMatrix coords.Matrix
}

func NewTextState() *TextState {
	return &TextState{HScale: 100, TextMatrix: coords.Identity(), TextLineMatrix: coords.Identity()}
}

// Walker replays an Operation list, maintaining GraphicsState and TextState
// exactly as a PDF content-stream interpreter would, without itself
// painting anything. The glyph decoder and rewriter both drive a Walker to
// know the CTM/Tm/Tlm in effect at each show-text operation.
type Walker struct {
	GS *GraphicsState
	TS *TextState
}

func NewWalker() *Walker {
	return &Walker{GS: NewGraphicsState(), TS: NewTextState()}
}

// Step applies the effect of a single operation to the walker's state. It
// never errors on operators it does not recognize (OpOther); it returns an
// error only for state-stack misuse (Q with no matching q) or BT/ET
// nesting violations.
func (w *Walker) Step(op Operation) error {
	switch op.Kind {
	case OpSaveState:
		w.GS.Save()
	case OpRestoreState:
		return w.GS.Restore()
	case OpConcatMatrix:
		if m, ok := matrixOperand(op.Operands); ok {
			w.GS.CTM = m.Multiply(w.GS.CTM)
		}
	case OpBeginText:
		if w.TS.InTextObject {
			return errors.New("contentstream: nested BT")
		}
		w.TS.InTextObject = true
		w.TS.TextMatrix = coords.Identity()
		w.TS.TextLineMatrix = coords.Identity()
	case OpEndText:
		if !w.TS.InTextObject {
			return errors.New("contentstream: ET without BT")
		}
		w.TS.InTextObject = false
	case OpSetFont:
		if len(op.Operands) == 2 && op.Operands[0].Kind == OperandName && op.Operands[1].Kind == OperandNumber {
			w.TS.FontName = op.Operands[0].Name
			w.TS.FontSize = op.Operands[1].Number
		}
	case OpSetCharSpace:
		if v, ok := numberOperand(op.Operands, 0); ok {
			w.TS.CharSpace = v
		}
	case OpSetWordSpace:
		if v, ok := numberOperand(op.Operands, 0); ok {
			w.TS.WordSpace = v
		}
	case OpSetHScale:
		if v, ok := numberOperand(op.Operands, 0); ok {
			w.TS.HScale = v
		}
	case OpSetLeading:
		if v, ok := numberOperand(op.Operands, 0); ok {
			w.TS.Leading = v
		}
	case OpSetRenderMode:
		if v, ok := numberOperand(op.Operands, 0); ok {
			w.TS.RenderMode = int(v)
		}
	case OpSetRise:
		if v, ok := numberOperand(op.Operands, 0); ok {
			w.TS.Rise = v
		}
	case OpSetTextMatrix:
		if m, ok := matrixOperand(op.Operands); ok {
			w.TS.TextLineMatrix = m
			w.TS.TextMatrix = m
		}
	case OpMoveText:
		if tx, ok1 := numberOperand(op.Operands, 0); ok1 {
			if ty, ok2 := numberOperand(op.Operands, 1); ok2 {
				m := coords.Translate(tx, ty).Multiply(w.TS.TextLineMatrix)
				w.TS.TextLineMatrix = m
				w.TS.TextMatrix = m
			}
		}
	case OpMoveTextSetLead:
		if tx, ok1 := numberOperand(op.Operands, 0); ok1 {
			if ty, ok2 := numberOperand(op.Operands, 1); ok2 {
				w.TS.Leading = -ty
				m := coords.Translate(tx, ty).Multiply(w.TS.TextLineMatrix)
				w.TS.TextLineMatrix = m
				w.TS.TextMatrix = m
			}
		}
	case OpNextLine:
		m := coords.Translate(0, -w.TS.Leading).Multiply(w.TS.TextLineMatrix)
		w.TS.TextLineMatrix = m
		w.TS.TextMatrix = m
	case OpMoveShowText:
		w.TS.TextLineMatrix = coords.Translate(0, -w.TS.Leading).Multiply(w.TS.TextLineMatrix)
		w.TS.TextMatrix = w.TS.TextLineMatrix
	case OpMoveShowTextAW:
		if aw, ok1 := numberOperand(op.Operands, 0); ok1 {
			if ac, ok2 := numberOperand(op.Operands, 1); ok2 {
				w.TS.WordSpace = aw
				w.TS.CharSpace = ac
			}
		}
		w.TS.TextLineMatrix = coords.Translate(0, -w.TS.Leading).Multiply(w.TS.TextLineMatrix)
		w.TS.TextMatrix = w.TS.TextLineMatrix
	}
	return nil
}

// Advance moves the text matrix by a glyph/string displacement, in
// unscaled text space units (already divided by 1000 and multiplied by
// font size by the caller), following PDF 9.4.4's "Tx" formula.
func (w *Walker) Advance(tx float64) {
	w.TS.TextMatrix = coords.Translate(tx, 0).Multiply(w.TS.TextMatrix)
}

func matrixOperand(ops []Operand) (coords.Matrix, bool) {
	if len(ops) != 6 {
		return coords.Matrix{}, false
	}
	var m coords.Matrix
	for i, o := range ops {
		if o.Kind != OperandNumber {
			return coords.Matrix{}, false
		}
		m[i] = o.Number
	}
	return m, true
}

func numberOperand(ops []Operand, idx int) (float64, bool) {
	if idx >= len(ops) || ops[idx].Kind != OperandNumber {
		return 0, false
	}
	return ops[idx].Number, true
}
