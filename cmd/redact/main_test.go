package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inkfold/redactpdf/redact"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadLetters(t *testing.T) {
	path := writeTemp(t, "letters.json", `[{"unicode":"H","minX":1,"minY":2,"maxX":3,"maxY":4}]`)
	letters, err := readLetters(path)
	if err != nil {
		t.Fatalf("readLetters: %v", err)
	}
	if len(letters) != 1 || letters[0].Unicode != "H" {
		t.Fatalf("unexpected letters: %+v", letters)
	}
	want := redact.Rect{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}
	if letters[0].BBox != want {
		t.Errorf("got bbox %+v, want %+v", letters[0].BBox, want)
	}
}

func TestReadAreas(t *testing.T) {
	path := writeTemp(t, "areas.json", `[{"minX":0,"minY":0,"maxX":10,"maxY":10}]`)
	areas, err := readAreas(path)
	if err != nil {
		t.Fatalf("readAreas: %v", err)
	}
	if len(areas) != 1 || areas[0].MaxX != 10 {
		t.Fatalf("unexpected areas: %+v", areas)
	}
}

func TestReadFontsEmptyPath(t *testing.T) {
	resources, err := readFonts("")
	if err != nil {
		t.Fatalf("readFonts: %v", err)
	}
	if len(resources) != 0 {
		t.Errorf("expected no resources, got %+v", resources)
	}
}

func TestReadFonts(t *testing.T) {
	path := writeTemp(t, "fonts.json", `{"F1":{"subtype":"Type1","baseEncoding":"WinAnsiEncoding","firstChar":0,"widths":[500,600]}}`)
	resources, err := readFonts(path)
	if err != nil {
		t.Fatalf("readFonts: %v", err)
	}
	f1, ok := resources["F1"]
	if !ok {
		t.Fatalf("expected F1 in resources, got %+v", resources)
	}
	if f1.Subtype != "Type1" || len(f1.Widths) != 2 {
		t.Errorf("unexpected font dict: %+v", f1)
	}
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]redact.GlyphRemovalStrategy{
		"":          redact.CenterPoint,
		"center":    redact.CenterPoint,
		"overlap":   redact.AnyOverlap,
		"contained": redact.FullyContained,
	}
	for input, want := range cases {
		got, err := parseStrategy(input)
		if err != nil {
			t.Fatalf("parseStrategy(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("parseStrategy(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := parseStrategy("bogus"); err == nil {
		t.Errorf("expected an error for an unknown strategy")
	}
}
