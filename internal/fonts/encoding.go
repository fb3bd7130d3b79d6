package fonts

// The five named base encodings from spec.md 4.3's simple-font priority
// list. Codes 0x20-0x7E match ASCII for WinAnsi, MacRoman and PDFDoc;
// Standard diverges at quoteright (0x27) and quoteleft (0x60).
// Entries left at 0 are undefined in that encoding.

var standardEncoding = buildASCIIBase(map[int]rune{
	0x27: '’', // quoteright
	0x60: '‘', // quoteleft
	0xA1: '¡', 0xA2: '¢', 0xA3: '£', 0xA4: '⁄', 0xA5: '¥',
	0xA6: 'ƒ', 0xA7: '§', 0xA8: '¤', 0xA9: '\'', 0xAA: '“',
	0xAB: '«', 0xAC: '‹', 0xAD: '›', 0xAE: 'ﬁ', 0xAF: 'ﬂ',
	0xB1: '–', 0xB2: '†', 0xB3: '‡', 0xB4: '·', 0xB6: '¶',
	0xB7: '•', 0xB8: '‚', 0xB9: '„', 0xBA: '”', 0xBB: '»',
	0xBC: '…', 0xBD: '‰', 0xBF: '¿',
	0xC1: '`', 0xC2: '´', 0xC3: 'ˆ', 0xC4: '˜', 0xC5: '¯',
	0xC6: '˘', 0xC7: '˙', 0xC8: '¨', 0xCA: '˚', 0xCB: '¸',
	0xCD: '˝', 0xCE: '˛', 0xCF: 'ˇ', 0xD0: '—',
	0xE1: 'Æ', 0xE3: 'ª', 0xE8: 'Ł', 0xE9: 'Ø', 0xEA: 'Œ',
	0xEB: 'º', 0xF1: 'æ', 0xF5: 'ı', 0xF8: 'ł', 0xF9: 'ø',
	0xFA: 'œ', 0xFB: 'ß',
})

var winAnsiEncoding = buildASCIIBase(map[int]rune{
	0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„', 0x85: '…',
	0x86: '†', 0x87: '‡', 0x88: 'ˆ', 0x89: '‰', 0x8A: 'Š',
	0x8B: '‹', 0x8C: 'Œ', 0x8E: 'Ž', 0x91: '‘', 0x92: '’',
	0x93: '“', 0x94: '”', 0x95: '•', 0x96: '–', 0x97: '—',
	0x98: '˜', 0x99: '™', 0x9A: 'š', 0x9B: '›', 0x9C: 'œ',
	0x9E: 'ž', 0x9F: 'Ÿ', 0xA0: ' ',
	0xA1: '¡', 0xA2: '¢', 0xA3: '£', 0xA4: '¤', 0xA5: '¥',
	0xA6: '¦', 0xA7: '§', 0xA8: '¨', 0xA9: '©', 0xAA: 'ª',
	0xAB: '«', 0xAC: '¬', 0xAD: '­', 0xAE: '®', 0xAF: '¯',
	0xB0: '°', 0xB1: '±', 0xB2: '²', 0xB3: '³', 0xB4: '´',
	0xB5: 'µ', 0xB6: '¶', 0xB7: '·', 0xB8: '¸', 0xB9: '¹',
	0xBA: 'º', 0xBB: '»', 0xBC: '¼', 0xBD: '½', 0xBE: '¾',
	0xBF: '¿',
	0xC0: 'À', 0xC1: 'Á', 0xC2: 'Â', 0xC3: 'Ã', 0xC4: 'Ä',
	0xC5: 'Å', 0xC6: 'Æ', 0xC7: 'Ç', 0xC8: 'È', 0xC9: 'É',
	0xCA: 'Ê', 0xCB: 'Ë', 0xCC: 'Ì', 0xCD: 'Í', 0xCE: 'Î',
	0xCF: 'Ï', 0xD0: 'Ð', 0xD1: 'Ñ', 0xD2: 'Ò', 0xD3: 'Ó',
	0xD4: 'Ô', 0xD5: 'Õ', 0xD6: 'Ö', 0xD7: '×', 0xD8: 'Ø',
	0xD9: 'Ù', 0xDA: 'Ú', 0xDB: 'Û', 0xDC: 'Ü', 0xDD: 'Ý',
	0xDE: 'Þ', 0xDF: 'ß',
	0xE0: 'à', 0xE1: 'á', 0xE2: 'â', 0xE3: 'ã', 0xE4: 'ä',
	0xE5: 'å', 0xE6: 'æ', 0xE7: 'ç', 0xE8: 'è', 0xE9: 'é',
	0xEA: 'ê', 0xEB: 'ë', 0xEC: 'ì', 0xED: 'í', 0xEE: 'î',
	0xEF: 'ï', 0xF0: 'ð', 0xF1: 'ñ', 0xF2: 'ò', 0xF3: 'ó',
	0xF4: 'ô', 0xF5: 'õ', 0xF6: 'ö', 0xF7: '÷', 0xF8: 'ø',
	0xF9: 'ù', 0xFA: 'ú', 0xFB: 'û', 0xFC: 'ü', 0xFD: 'ý',
	0xFE: 'þ', 0xFF: 'ÿ',
})

var macRomanEncoding = buildASCIIBase(map[int]rune{
	0x80: 'Ä', 0x81: 'Å', 0x82: 'Ç', 0x83: 'É', 0x84: 'Ñ',
	0x85: 'Ö', 0x86: 'Ü', 0x87: 'á', 0x88: 'à', 0x89: 'â',
	0x8A: 'ä', 0x8B: 'ã', 0x8C: 'å', 0x8D: 'ç', 0x8E: 'é',
	0x8F: 'è', 0x90: 'ê', 0x91: 'ë', 0x92: 'í', 0x93: 'ì',
	0x94: 'î', 0x95: 'ï', 0x96: 'ñ', 0x97: 'ó', 0x98: 'ò',
	0x99: 'ô', 0x9A: 'ö', 0x9B: 'õ', 0x9C: 'ú', 0x9D: 'ù',
	0x9E: 'û', 0x9F: 'ü', 0xA0: '†', 0xA1: '°', 0xA2: '¢',
	0xA3: '£', 0xA4: '§', 0xA5: '•', 0xA6: '¶', 0xA7: 'ß',
	0xA8: '®', 0xA9: '©', 0xAA: '™', 0xAB: '´', 0xAC: '¨',
	0xAE: 'Æ', 0xAF: 'Ø', 0xB1: '±', 0xB4: '¥', 0xB5: 'µ',
	0xBB: 'ª', 0xBC: 'º', 0xBE: 'æ', 0xBF: 'ø', 0xC0: '¿',
	0xC1: '¡', 0xC2: '¬', 0xC4: 'ƒ', 0xC7: '«', 0xC8: '»',
	0xC9: '…', 0xCA: ' ', 0xCB: 'À', 0xCC: 'Ã', 0xCD: 'Õ',
	0xCE: 'Œ', 0xCF: 'œ', 0xD0: '–', 0xD1: '—', 0xD2: '“',
	0xD3: '”', 0xD4: '‘', 0xD5: '’', 0xD6: '÷', 0xD8: 'ÿ',
	0xD9: 'Ÿ', 0xDA: '⁄', 0xDB: '€', 0xDC: '‹', 0xDD: '›',
	0xDE: 'ﬁ', 0xDF: 'ﬂ', 0xE0: '‡', 0xE1: '·', 0xE2: '‚',
	0xE3: '„', 0xE4: '‰', 0xE5: 'Â', 0xE6: 'Ê', 0xE7: 'Á',
	0xE8: 'Ë', 0xE9: 'È', 0xEA: 'Í', 0xEB: 'Î', 0xEC: 'Ï',
	0xED: 'Ì', 0xEE: 'Ó', 0xEF: 'Ô', 0xF1: 'Ò', 0xF2: 'Ú',
	0xF3: 'Û', 0xF4: 'Ù', 0xF5: 'ı', 0xF6: 'ˆ', 0xF7: '˜',
	0xF8: '¯', 0xF9: '˘', 0xFA: '˙', 0xFB: '˚', 0xFC: '¸',
	0xFD: '˝', 0xFE: '˛', 0xFF: 'ˇ',
})

// MacExpertEncoding is rare in practice (small caps, old-style figures);
// the registry only needs enough of it to avoid treating an unresolved
// base encoding as a hard error, so non-ASCII codes fall back to the
// replacement character until a /Differences array overrides them. This
// is a deliberate stub tier, not an oversight: a font declaring this
// encoding almost always also carries a ToUnicode CMap, which
// font.go's Unicode resolution already prefers over the base-encoding
// table regardless of which one is loaded here.
var macExpertEncoding = buildASCIIBase(nil)

var pdfDocEncoding = buildASCIIBase(map[int]rune{
	0x18: '˘', 0x19: 'ˇ', 0x1A: 'ˆ', 0x1B: '˙', 0x1C: '˝',
	0x1D: '˛', 0x1E: '˚', 0x1F: '˜',
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…', 0x84: '—',
	0x85: '–', 0x86: 'ƒ', 0x87: '⁄', 0x88: '‹', 0x89: '›',
	0x8A: '−', 0x8B: '‰', 0x8C: '„', 0x8D: '“', 0x8E: '”',
	0x8F: '‘', 0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ',
	0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š', 0x98: 'Ÿ',
	0x99: 'Ž', 0x9A: 'ı', 0x9B: 'ł', 0x9C: 'œ', 0x9D: 'š',
	0x9E: 'ž', 0xA0: '€',
})

func buildASCIIBase(overrides map[int]rune) [256]rune {
	var t [256]rune
	for c := 0x20; c <= 0x7E; c++ {
		t[c] = rune(c)
	}
	for c, r := range overrides {
		t[c] = r
	}
	return t
}

func baseEncodingTable(name string) [256]rune {
	switch name {
	case "WinAnsiEncoding":
		return winAnsiEncoding
	case "MacRomanEncoding":
		return macRomanEncoding
	case "MacExpertEncoding":
		return macExpertEncoding
	case "PDFDocEncoding":
		return pdfDocEncoding
	default:
		return standardEncoding
	}
}

// glyphNameToRune resolves the subset of the Adobe Glyph List that actually
// shows up in /Differences arrays for redaction-relevant text: Latin
// letters, digits, and common punctuation glyph names. Names outside this
// table (ligatures, expert-set variants) are left unmapped, which simply
// means ToUnicode — present on essentially every font encountered in
// practice — remains authoritative for them.
var glyphNameToRune = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"quoteright": '’', "quoteleft": '‘', "parenleft": '(', "parenright": ')',
	"asterisk": '*', "plus": '+', "comma": ',', "hyphen": '-', "period": '.',
	"slash": '/', "colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@', "bracketleft": '[',
	"backslash": '\\', "bracketright": ']', "asciicircum": '^', "underscore": '_',
	"grave": '`', "braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',
	"endash": '–', "emdash": '—', "bullet": '•', "ellipsis": '…',
	"quotedblleft": '“', "quotedblright": '”',
}

func init() {
	digitNames := []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	for i, n := range digitNames {
		glyphNameToRune[n] = rune('0' + i)
	}
	for c := 'a'; c <= 'z'; c++ {
		glyphNameToRune[string(c)] = c
	}
	for c := 'A'; c <= 'Z'; c++ {
		glyphNameToRune[string(c)] = c
	}
}

// resolveEncoding builds the 256-entry byte->Unicode table for a simple
// font, following spec.md 4.3's priority order: explicit /Differences over
// the named base encoding, falling back to StandardEncoding when no base
// encoding is named (the font's "built-in encoding" tier collapses to
// Standard here since the registry never parses embedded font programs'
// native encoding tables).
func resolveEncoding(baseName string, diffs []EncodingDifference) [256]rune {
	table := baseEncodingTable(baseName)
	for _, d := range diffs {
		if d.Code < 0 || d.Code > 255 {
			continue
		}
		if r, ok := glyphNameToRune[d.Name]; ok {
			table[d.Code] = r
		}
	}
	return table
}
