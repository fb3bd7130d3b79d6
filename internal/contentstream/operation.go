// Package contentstream implements the content-stream state machine: an
// Operation/Operand data model and a GraphicsState/TextState walker that
// tracks everything the glyph decoder and rewriter need (CTM, text matrix,
// active font) as it steps through a parsed operation list.
package contentstream

// OperandKind discriminates the operand sum type. A content-stream operand
// is always one of these seven shapes; modeling it as a tagged union
// instead of an interface with seven implementations keeps type switches
// exhaustive and avoids a dispatch table per operand kind.
type OperandKind int

const (
	OperandNumber OperandKind = iota
	OperandName
	OperandString
	OperandArray
	OperandDict
	OperandBool
	OperandNull
)

// Operand is a single operand to a content-stream operator.
type Operand struct {
	Kind   OperandKind
	Number float64
	Name   string
	Str    []byte
	IsHex  bool // string operand was written as a hex string, not a literal
	Array  []Operand
	Dict   map[string]Operand
	Bool   bool
}

func NumberOperand(v float64) Operand       { return Operand{Kind: OperandNumber, Number: v} }
func NameOperand(v string) Operand          { return Operand{Kind: OperandName, Name: v} }
func StringOperand(v []byte, hex bool) Operand {
	return Operand{Kind: OperandString, Str: v, IsHex: hex}
}
func ArrayOperand(v []Operand) Operand          { return Operand{Kind: OperandArray, Array: v} }
func DictOperand(v map[string]Operand) Operand  { return Operand{Kind: OperandDict, Dict: v} }
func BoolOperand(v bool) Operand                { return Operand{Kind: OperandBool, Bool: v} }
func NullOperand() Operand                      { return Operand{Kind: OperandNull} }

// Kind enumerates the families of operators relevant to glyph-level
// redaction; OpOther covers everything the state machine does not need to
// interpret specially (color, path painting, clipping, etc.) but still
// preserves verbatim.
type Kind int

const (
	OpOther Kind = iota
	OpSaveState       // q
	OpRestoreState    // Q
	OpConcatMatrix    // cm
	OpBeginText       // BT
	OpEndText         // ET
	OpSetFont         // Tf
	OpSetCharSpace    // Tc
	OpSetWordSpace    // Tw
	OpSetHScale       // Tz
	OpSetLeading      // TL
	OpSetRenderMode   // Tr
	OpSetRise         // Ts
	OpSetTextMatrix   // Tm
	OpMoveText        // Td
	OpMoveTextSetLead // TD
	OpNextLine        // T*
	OpShowText        // Tj
	OpShowTextArray   // TJ
	OpMoveShowText    // '
	OpMoveShowTextAW  // "
	OpBeginMarked     // BMC
	OpBeginMarkedDict // BDC
	OpEndMarked       // EMC
	OpInvokeXObject   // Do
	OpInlineImage     // BI...ID...EI, collapsed into one operation
)

var keywordKinds = map[string]Kind{
	"q": OpSaveState, "Q": OpRestoreState, "cm": OpConcatMatrix,
	"BT": OpBeginText, "ET": OpEndText,
	"Tf": OpSetFont, "Tc": OpSetCharSpace, "Tw": OpSetWordSpace, "Tz": OpSetHScale,
	"TL": OpSetLeading, "Tr": OpSetRenderMode, "Ts": OpSetRise,
	"Tm": OpSetTextMatrix, "Td": OpMoveText, "TD": OpMoveTextSetLead, "T*": OpNextLine,
	"Tj": OpShowText, "TJ": OpShowTextArray, "'": OpMoveShowText, "\"": OpMoveShowTextAW,
	"BMC": OpBeginMarked, "BDC": OpBeginMarkedDict, "EMC": OpEndMarked,
	"Do": OpInvokeXObject,
}

// KindOf classifies an operator keyword; unrecognized operators (path
// painting, color space selection, clipping, shading, marked-content
// points) classify as OpOther and are carried through unmodified.
func KindOf(operator string) Kind {
	if k, ok := keywordKinds[operator]; ok {
		return k
	}
	return OpOther
}

// Operation is one content-stream operator together with its operands and
// the byte range it occupied in the source stream, needed by the Rewriter
// to splice replacement bytes back in without re-serializing operators it
// never touched.
type Operation struct {
	Operator string
	Kind     Kind
	Operands []Operand
	Pos, End int64

	// ImageDict/ImageData are populated only for OpInlineImage; Operator
	// is the literal "BI" in that case and Operands is unused.
	ImageDict map[string]Operand
	ImageData []byte
}

// IsShowText reports whether the operation shows text and therefore
// produces glyphs for the decoder to walk.
func (op Operation) IsShowText() bool {
	switch op.Kind {
	case OpShowText, OpShowTextArray, OpMoveShowText, OpMoveShowTextAW:
		return true
	default:
		return false
	}
}
