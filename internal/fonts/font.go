// Package fonts resolves page and Form-XObject resource dictionaries into
// decoders capable of turning show-text operands into Unicode glyphs: the
// Font Registry of the redaction pipeline.
package fonts

// CIDSystemInfo identifies the character collection a composite font's CIDs
// are drawn from.
type CIDSystemInfo struct {
	Registry   string
	Ordering   string
	Supplement int
}

// FontDescriptor carries the metrics used as the last-resort width/bbox
// source when neither an explicit width table nor a ToUnicode-adjacent
// source is available.
type FontDescriptor struct {
	FontName    string
	Ascent      float64
	Descent     float64
	CapHeight   float64
	ItalicAngle float64
	FontBBox    [4]float64
	// Metrics, if non-nil, is a parsed embedded font program consulted for
	// per-glyph widths when the PDF's own /Widths or /W array is silent.
	Metrics *ProgramMetrics
}

// EncodingDifference is one code-to-glyph-name pair taken from a simple
// font's /Differences array: Name replaces the base encoding's glyph for
// Code only.
type EncodingDifference struct {
	Code int
	Name string
}

// Kind distinguishes the two font architectures the registry resolves.
type Kind int

const (
	// KindSimple is a 1-byte-per-code font (Type1, TrueType, Type3, MMType1).
	KindSimple Kind = iota
	// KindComposite is a Type0 font with a descendant CIDFont.
	KindComposite
)

// Font is a resolved decoder for one resource-dictionary font entry,
// sufficient to turn show-text operand bytes into codes, CIDs, widths, and
// Unicode text.
type Font struct {
	Name       string // the resource-dictionary key it was looked up under
	Kind       Kind
	Subtype    string // Type1, TrueType, Type3, MMType1, or Type0
	BaseFont   string
	Descriptor *FontDescriptor

	// Simple-font fields.
	simpleToUnicode [256]rune
	simpleWidths    [256]float64
	hasSimpleWidth  [256]bool

	// Composite-font fields.
	cmap          *cidCMap
	cidWidths     map[int]float64
	defaultWidth  float64
	cidSystemInfo CIDSystemInfo

	// ToUnicode, when present, is authoritative for Unicode values
	// regardless of font kind (spec.md 4.3).
	toUnicode *toUnicodeMap

	// MissingWidth is the /FontDescriptor MissingWidth fallback, or the
	// heuristic default of 500 (1/2 em) when absent.
	MissingWidth float64
}

// DefaultAscent and DefaultDescent are the heuristic glyph-bbox bounds used
// when a font carries no descriptor metrics, per spec.md 4.4.
const (
	DefaultAscent  = 0.75
	DefaultDescent = -0.25
)

func newFont(name string) *Font {
	return &Font{Name: name, MissingWidth: 500}
}

// Decode splits raw show-text operand bytes into codes. For a simple font
// every code is one byte; for a composite font each code is read according
// to the active CMap's code-space ranges (falling back to 2-byte Identity
// decoding when no explicit ranges were parsed).
func (f *Font) Decode(raw []byte) []Code {
	if f.Kind == KindSimple {
		codes := make([]Code, len(raw))
		for i, b := range raw {
			codes[i] = Code{Bytes: []byte{b}, Value: int(b)}
		}
		return codes
	}
	return f.cmap.decode(raw)
}

// Code is one decoded character code: its raw bytes (1 for simple fonts,
// usually 2 for composite fonts) and its integer value (byte code or CID).
type Code struct {
	Bytes []byte
	Value int
}

// Width returns the glyph width for code, in thousandths of an em, per
// spec.md 4.4's width formula input.
func (f *Font) Width(c Code) float64 {
	if f.Kind == KindSimple {
		if c.Value >= 0 && c.Value < 256 && f.hasSimpleWidth[c.Value] {
			return f.simpleWidths[c.Value]
		}
	} else if w, ok := f.cidWidths[c.Value]; ok {
		return w
	} else if f.defaultWidth != 0 {
		return f.defaultWidth
	}
	if f.Descriptor != nil && f.Descriptor.Metrics != nil {
		if w, ok := f.Descriptor.Metrics.GlyphWidth(c.Value); ok {
			return w
		}
	}
	return f.MissingWidth
}

// Unicode returns the decoded text for code: ToUnicode is authoritative
// when present, otherwise the simple encoding table, otherwise the Unicode
// replacement character per spec.md 4.3.
func (f *Font) Unicode(c Code) string {
	if f.toUnicode != nil {
		if s, ok := f.toUnicode.lookup(c.Bytes); ok {
			return s
		}
	}
	if f.Kind == KindSimple && c.Value >= 0 && c.Value < 256 {
		if r := f.simpleToUnicode[c.Value]; r != 0 {
			return string(r)
		}
	}
	return "�"
}

// IsSpace reports whether code decodes to U+0020, the condition under
// which Tw word spacing applies (PDF 9.3.3: only for single-byte codes).
func (f *Font) IsSpace(c Code) bool {
	return len(c.Bytes) == 1 && c.Bytes[0] == 0x20
}

// Ascent and Descent report the glyph-bbox bounds in text-space units
// (1.0 = 1 em), preferring descriptor/program metrics and falling back to
// the heuristic defaults of spec.md 4.4 when neither is present.
func (f *Font) Ascent() float64 {
	if f.Descriptor != nil {
		if f.Descriptor.Ascent != 0 {
			return f.Descriptor.Ascent / 1000
		}
		if f.Descriptor.Metrics != nil {
			return f.Descriptor.Metrics.Ascent() / 1000
		}
	}
	return DefaultAscent
}

func (f *Font) Descent() float64 {
	if f.Descriptor != nil {
		if f.Descriptor.Descent != 0 {
			return f.Descriptor.Descent / 1000
		}
		if f.Descriptor.Metrics != nil {
			return -f.Descriptor.Metrics.Descent() / 1000
		}
	}
	return DefaultDescent
}
