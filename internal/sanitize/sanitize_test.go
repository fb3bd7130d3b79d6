package sanitize_test

import (
	"testing"

	"github.com/inkfold/redactpdf/internal/coords"
	"github.com/inkfold/redactpdf/internal/sanitize"
)

func TestAnnotationsDropsOverlapping(t *testing.T) {
	annots := []sanitize.Annotation{
		sanitize.BaseAnnotation{Subtype: "Highlight", RectVal: sanitize.Rectangle{LLX: 10, LLY: 10, URX: 20, URY: 20}},
		sanitize.BaseAnnotation{Subtype: "Link", RectVal: sanitize.Rectangle{LLX: 500, LLY: 500, URX: 520, URY: 520}},
	}
	areas := []coords.Rect{{MinX: 0, MinY: 0, MaxX: 15, MaxY: 15}}

	kept, removed := sanitize.Annotations(annots, areas)
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if len(kept) != 1 || kept[0].Type() != "Link" {
		t.Fatalf("expected the Link annotation to survive, got %+v", kept)
	}
}

func TestAnnotationsNoAreasKeepsAll(t *testing.T) {
	annots := []sanitize.Annotation{
		sanitize.BaseAnnotation{Subtype: "Text", RectVal: sanitize.Rectangle{LLX: 0, LLY: 0, URX: 5, URY: 5}},
	}
	kept, removed := sanitize.Annotations(annots, nil)
	if removed != 0 || len(kept) != 1 {
		t.Fatalf("expected nothing removed, got kept=%v removed=%d", kept, removed)
	}
}

func TestInfoBlanksAllFields(t *testing.T) {
	info := &sanitize.DocumentInfo{Title: "Confidential", Author: "Someone", Keywords: []string{"secret"}}
	got := sanitize.Info(info)
	if got.Title != "" || got.Author != "" || len(got.Keywords) != 0 {
		t.Errorf("expected all fields blanked, got %+v", got)
	}
}

func TestMetadataClearsRawBytes(t *testing.T) {
	meta := &sanitize.XMPMetadata{Raw: []byte("<x:xmpmeta>...</x:xmpmeta>")}
	got := sanitize.Metadata(meta)
	if len(got.Raw) != 0 {
		t.Errorf("expected raw XMP cleared, got %q", got.Raw)
	}
}
