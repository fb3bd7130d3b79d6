package fonts

import "fmt"

// Dict is the already-parsed form of a page or Form-XObject resource
// dictionary's font entry: the structural PDF parsing that produces this
// (decrypting, resolving indirect references, decoding stream filters) is
// an external collaborator's job, not this module's. Its shape mirrors
// what a /Font resource actually carries.
type Dict struct {
	Subtype  string // Type1, TrueType, Type3, MMType1, or Type0
	BaseFont string

	// Simple-font fields.
	BaseEncoding string // StandardEncoding, WinAnsiEncoding, etc; "" means font's built-in
	Differences  []EncodingDifference
	FirstChar    int
	Widths       []float64 // Widths[i] is the width for code FirstChar+i
	MissingWidth float64

	// Composite-font fields.
	Encoding      string // Identity-H, Identity-V, or "" when EmbeddedCMap is set
	EmbeddedCMap  []byte
	CIDSystemInfo CIDSystemInfo
	DefaultWidth  float64
	CIDWidths     map[int]float64 // CID -> width, expanded from /W

	ToUnicodeCMap []byte

	Descriptor *FontDescriptorDict
}

// FontDescriptorDict is the parsed /FontDescriptor plus its embedded font
// program bytes, if any.
type FontDescriptorDict struct {
	Ascent, Descent, CapHeight, ItalicAngle float64
	FontBBox                                [4]float64
	FontProgram                             []byte // FontFile, FontFile2, or FontFile3
}

// UnresolvableFontError is returned when a Tf operator names a resource
// entry absent from the current resource scope (spec.md 4.3). Callers
// must not treat this as fatal: the state machine continues and the
// Glyph Decoder yields an empty glyph sequence for the operation.
type UnresolvableFontError struct {
	Name string
}

func (e *UnresolvableFontError) Error() string {
	return fmt.Sprintf("fonts: %q not found in resource scope", e.Name)
}

// Registry resolves resource-dictionary font entries into Font decoders,
// caching by resource name within a page (spec.md 3's Font lifecycle:
// "per-page, cached").
type Registry struct {
	cache map[string]*Font
}

func NewRegistry() *Registry {
	return &Registry{cache: make(map[string]*Font)}
}

// Resolve returns the cached Font for name, building it from dict on first
// use. dict == nil means the name is absent from the resource scope and
// produces an *UnresolvableFontError.
func (r *Registry) Resolve(name string, dict *Dict) (*Font, error) {
	if f, ok := r.cache[name]; ok {
		return f, nil
	}
	if dict == nil {
		return nil, &UnresolvableFontError{Name: name}
	}
	f, err := buildFont(name, dict)
	if err != nil {
		return nil, err
	}
	r.cache[name] = f
	return f, nil
}

func buildFont(name string, dict *Dict) (*Font, error) {
	f := newFont(name)
	f.Subtype = dict.Subtype
	f.BaseFont = dict.BaseFont
	if dict.MissingWidth != 0 {
		f.MissingWidth = dict.MissingWidth
	}
	if dict.Descriptor != nil {
		f.Descriptor = buildDescriptor(dict.Descriptor)
	}
	if len(dict.ToUnicodeCMap) > 0 {
		f.toUnicode = parseToUnicodeCMap(dict.ToUnicodeCMap)
	}

	if dict.Subtype == "Type0" {
		f.Kind = KindComposite
		f.cidSystemInfo = dict.CIDSystemInfo
		f.defaultWidth = dict.DefaultWidth
		if f.defaultWidth == 0 {
			f.defaultWidth = 1000
		}
		f.cidWidths = dict.CIDWidths
		switch {
		case len(dict.EmbeddedCMap) > 0:
			f.cmap = parseEmbeddedCMap(dict.EmbeddedCMap)
		default:
			f.cmap = identityCMap()
		}
		return f, nil
	}

	f.Kind = KindSimple
	f.simpleToUnicode = resolveEncoding(dict.BaseEncoding, dict.Differences)
	for i, w := range dict.Widths {
		code := dict.FirstChar + i
		if code < 0 || code > 255 {
			continue
		}
		f.simpleWidths[code] = w
		f.hasSimpleWidth[code] = true
	}
	return f, nil
}

func buildDescriptor(d *FontDescriptorDict) *FontDescriptor {
	fd := &FontDescriptor{
		Ascent:      d.Ascent,
		Descent:     d.Descent,
		CapHeight:   d.CapHeight,
		ItalicAngle: d.ItalicAngle,
		FontBBox:    d.FontBBox,
	}
	if len(d.FontProgram) > 0 {
		if pm, err := LoadProgramMetrics(d.FontProgram); err == nil {
			fd.Metrics = pm
		}
	}
	return fd
}
