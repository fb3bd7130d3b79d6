package fonts

import "testing"

const sampleToUnicodeCMap = `
/CIDInit /ProcSet findresource begin
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
2 beginbfchar
<0003> <0041>
<0004> <0042>
endbfchar
1 beginbfrange
<0010> <0012> <0061>
endbfrange
endcmap
`

func TestParseToUnicodeCMapBfchar(t *testing.T) {
	m := parseToUnicodeCMap([]byte(sampleToUnicodeCMap))
	if s, ok := m.lookup([]byte{0x00, 0x03}); !ok || s != "A" {
		t.Errorf("lookup(0003) = %q, %v, want A, true", s, ok)
	}
	if s, ok := m.lookup([]byte{0x00, 0x04}); !ok || s != "B" {
		t.Errorf("lookup(0004) = %q, %v, want B, true", s, ok)
	}
}

func TestParseToUnicodeCMapBfrange(t *testing.T) {
	m := parseToUnicodeCMap([]byte(sampleToUnicodeCMap))
	for i, want := range []string{"a", "b", "c"} {
		code := []byte{0x00, byte(0x10 + i)}
		if s, ok := m.lookup(code); !ok || s != want {
			t.Errorf("lookup(%x) = %q, %v, want %q, true", code, s, ok, want)
		}
	}
}

func TestParseToUnicodeCMapArrayBfrange(t *testing.T) {
	data := []byte(`
1 beginbfrange
<0020> <0022> [<0041> <0042> <0043>]
endbfrange
`)
	m := parseToUnicodeCMap(data)
	if s, ok := m.lookup([]byte{0x00, 0x21}); !ok || s != "B" {
		t.Errorf("lookup(0021) = %q, %v, want B, true", s, ok)
	}
}

func TestToUnicodeMapMissingCodeFalls(t *testing.T) {
	m := parseToUnicodeCMap([]byte(sampleToUnicodeCMap))
	if _, ok := m.lookup([]byte{0xFF, 0xFF}); ok {
		t.Error("lookup of an absent code should report false")
	}
}
