package fonts

import "testing"

func TestIdentityCMapDecodesTwoByteCodes(t *testing.T) {
	m := identityCMap()
	codes := m.decode([]byte{0x00, 0x41, 0x01, 0x02})
	if len(codes) != 2 {
		t.Fatalf("got %d codes, want 2: %+v", len(codes), codes)
	}
	if codes[0].Value != 0x0041 || codes[1].Value != 0x0102 {
		t.Errorf("codes = %+v, want [0x41 0x102]", codes)
	}
}

func TestParseEmbeddedCMapCIDRange(t *testing.T) {
	data := []byte(`
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
1 begincidrange
<0020> <007E> 1
endcidrange
`)
	m := parseEmbeddedCMap(data)
	codes := m.decode([]byte{0x00, 0x41})
	if len(codes) != 1 {
		t.Fatalf("got %d codes, want 1", len(codes))
	}
	want := 1 + (0x41 - 0x20)
	if codes[0].Value != want {
		t.Errorf("CID = %d, want %d", codes[0].Value, want)
	}
}

func TestParseEmbeddedCMapCIDChar(t *testing.T) {
	data := []byte(`
1 begincidchar
<0005> 200
endcidchar
`)
	m := parseEmbeddedCMap(data)
	codes := m.decode([]byte{0x00, 0x05})
	if len(codes) != 1 || codes[0].Value != 200 {
		t.Fatalf("codes = %+v, want single CID 200", codes)
	}
}

func TestMatchLengthFallsBackToShortestRange(t *testing.T) {
	m := &cidCMap{spaces: []codespaceRange{{Lo: []byte{0x00}, Hi: []byte{0x7F}, NumBytes: 1}}}
	if n := m.matchLength([]byte{0x90, 0x42}); n != 1 {
		t.Errorf("matchLength = %d, want 1", n)
	}
}
