package fonts

import "testing"

func TestLoadProgramMetricsRejectsGarbage(t *testing.T) {
	_, err := LoadProgramMetrics([]byte("not a font program"))
	if err == nil {
		t.Fatal("expected an error parsing non-font data")
	}
}

func TestScaleFixedNormalizesToThousandthsOfEm(t *testing.T) {
	// At ppem == unitsPerEm the fixed.Int26_6 value equals the design-unit
	// value shifted left by 6 bits (the 26.6 fixed-point format).
	const unitsPerEm = 1000
	got := scaleFixed(1000<<6, unitsPerEm)
	if got != 1000 {
		t.Errorf("scaleFixed(1000 em-units, 1000 upm) = %v, want 1000", got)
	}
}
