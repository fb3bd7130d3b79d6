package coords_test

import (
	"math"
	"testing"

	"github.com/inkfold/redactpdf/internal/coords"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRotationRoundTrip(t *testing.T) {
	const w, h = 612.0, 792.0
	pt := coords.Point{X: 100, Y: 250}

	for _, rot := range []coords.Rotation{coords.Rotate0, coords.Rotate90, coords.Rotate180, coords.Rotate270} {
		toVisual := coords.ContentToVisual(rot, w, h)
		toContent := coords.VisualToContent(rot, w, h)

		visual := toVisual.Transform(pt)
		back := toContent.Transform(visual)

		if !almostEqual(back.X, pt.X) || !almostEqual(back.Y, pt.Y) {
			t.Errorf("rotation %d: round trip = %+v, want %+v", rot, back, pt)
		}
	}
}

func TestVisualToContentMatchesSpecFormulas(t *testing.T) {
	const w, h = 612.0, 792.0
	pt := coords.Point{X: 30, Y: 40}

	cases := map[coords.Rotation]coords.Point{
		coords.Rotate0:   {X: 30, Y: 40},
		coords.Rotate90:  {X: h - 40, Y: 30},
		coords.Rotate180: {X: w - 30, Y: h - 40},
		coords.Rotate270: {X: 40, Y: h - 30},
	}
	for rot, want := range cases {
		got := coords.VisualToContent(rot, w, h).Transform(pt)
		if !almostEqual(got.X, want.X) || !almostEqual(got.Y, want.Y) {
			t.Errorf("VisualToContent(%d) = %+v, want %+v", rot, got, want)
		}
	}
}

func TestNormalizeRotation(t *testing.T) {
	cases := map[int]coords.Rotation{
		0:   coords.Rotate0,
		90:  coords.Rotate90,
		360: coords.Rotate0,
		-90: coords.Rotate270,
		450: coords.Rotate90,
		730: coords.Rotate0, // 730 = 2*360 + 10, floors to nearest multiple of 90 below 10 -> 0
	}
	for in, want := range cases {
		if got := coords.NormalizeRotation(in); got != want {
			t.Errorf("NormalizeRotation(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestMatrixInverseSingular(t *testing.T) {
	m := coords.Matrix{1, 1, 1, 1, 0, 0}
	if _, err := m.Inverse(); err == nil {
		t.Fatal("expected error for singular matrix")
	}
}

func TestTransformRectNormalizes(t *testing.T) {
	r := coords.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	rotated := coords.TransformRect(coords.Rotate(math.Pi/2), r)
	if rotated.MinX > rotated.MaxX || rotated.MinY > rotated.MaxY {
		t.Errorf("TransformRect produced unnormalized rect: %+v", rotated)
	}
}
