package fonts

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ProgramMetrics is the Font Registry's last-resort width/bbox source: an
// embedded TrueType or CFF-flavored OpenType font program, parsed only
// far enough to answer per-glyph width and bounding-box queries when the
// PDF's own /Widths or /W array is silent for a code. Parsing and
// rewriting the glyph outlines themselves is out of scope — this tool
// only ever removes glyphs, never reshapes them.
type ProgramMetrics struct {
	font       *sfnt.Font
	buf        sfnt.Buffer
	unitsPerEm int32
	cmapFailed bool
}

// LoadProgramMetrics parses an embedded font program (FontFile, FontFile2,
// or FontFile3) for fallback metrics. A parse failure is not itself an
// UnresolvableFont condition: the caller simply has one fewer width source
// and falls through to MissingWidth.
func LoadProgramMetrics(data []byte) (*ProgramMetrics, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fonts: parse embedded font program: %w", err)
	}
	return &ProgramMetrics{font: f, unitsPerEm: int32(f.UnitsPerEm())}, nil
}

func (p *ProgramMetrics) ppem() fixed.Int26_6 {
	return fixed.Int26_6(p.unitsPerEm << 6)
}

// Ascent and Descent report the font's vertical metrics as distances from
// the baseline (both positive) in thousandths of an em; Font.Ascent and
// Font.Descent fall back to them when the FontDescriptor gives no explicit
// value.
func (p *ProgramMetrics) Ascent() float64 {
	m, err := p.font.Metrics(&p.buf, p.ppem(), font.HintingNone)
	if err != nil {
		return DefaultAscent * 1000
	}
	return scaleFixed(m.Ascent, p.unitsPerEm)
}

func (p *ProgramMetrics) Descent() float64 {
	m, err := p.font.Metrics(&p.buf, p.ppem(), font.HintingNone)
	if err != nil {
		return -DefaultDescent * 1000
	}
	return scaleFixed(m.Descent, p.unitsPerEm)
}

// GlyphWidth returns the advance width of the glyph for the given code
// point — a simple-font character code or a CID with an Identity
// CIDToGIDMap — in thousandths of an em.
func (p *ProgramMetrics) GlyphWidth(code int) (float64, bool) {
	if p.cmapFailed {
		return 0, false
	}
	gi, err := p.font.GlyphIndex(&p.buf, rune(code))
	if err != nil || gi == 0 {
		// GlyphIndex requires a Unicode cmap; composite fonts addressed
		// directly by glyph ID (the common case) have none, so treat
		// code as already a glyph index.
		gi = sfnt.GlyphIndex(code)
	}
	adv, err := p.font.GlyphAdvance(&p.buf, gi, p.ppem(), font.HintingNone)
	if err != nil {
		return 0, false
	}
	return scaleFixed(adv, p.unitsPerEm), true
}

// scaleFixed converts a fixed.Int26_6 value measured at ppem == unitsPerEm
// (so the font-to-pixel scale factor is exactly 1) into thousandths of an
// em: divide out the 26.6 fixed-point shift to get design units, then
// normalize by the font's units-per-em.
func scaleFixed(v fixed.Int26_6, unitsPerEm int32) float64 {
	return float64(v) / 64 / float64(unitsPerEm) * 1000
}
