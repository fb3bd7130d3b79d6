package fonts

import "testing"

func TestResolveEncodingBaseOnly(t *testing.T) {
	table := resolveEncoding("WinAnsiEncoding", nil)
	if table['A'] != 'A' {
		t.Errorf("WinAnsi['A'] = %q, want 'A'", table['A'])
	}
	if table[0x80] != '€' {
		t.Errorf("WinAnsi[0x80] = %q, want €", table[0x80])
	}
}

func TestResolveEncodingStandardVsWinAnsiApostrophe(t *testing.T) {
	std := resolveEncoding("StandardEncoding", nil)
	win := resolveEncoding("WinAnsiEncoding", nil)
	if std[0x27] == win[0x27] {
		t.Errorf("StandardEncoding and WinAnsiEncoding should diverge at 0x27, both gave %q", std[0x27])
	}
	if win[0x27] != '\'' {
		t.Errorf("WinAnsi[0x27] = %q, want apostrophe", win[0x27])
	}
}

func TestResolveEncodingDifferencesOverlay(t *testing.T) {
	diffs := []EncodingDifference{{Code: 0x41, Name: "bullet"}}
	table := resolveEncoding("StandardEncoding", diffs)
	if table[0x41] != '•' {
		t.Errorf("table[0x41] after Differences = %q, want bullet", table[0x41])
	}
	if table[0x42] != 'B' {
		t.Errorf("table[0x42] should be unaffected by a single-entry Differences, got %q", table[0x42])
	}
}
