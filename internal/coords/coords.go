// Package coords implements the affine geometry shared by the content-stream
// state machine, the glyph decoder, and the correlator: PDF transformation
// matrices, rectangles, and the page-rotation transform between content
// space and visual (viewer) space.
package coords

import (
	"errors"
	"math"
)

// Matrix is a PDF transformation matrix [a b c d e f], applied to a point
// (x, y) as x' = a*x + c*y + e, y' = b*x + d*y + f.
type Matrix [6]float64

func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Multiply returns m × o, the matrix that applies m first and then o —
// the PDF "cm" composition order.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

type Point struct{ X, Y float64 }

func (m Matrix) Transform(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

func (m Matrix) Inverse() (Matrix, error) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-10 {
		return Matrix{}, errors.New("coords: matrix singular")
	}
	return Matrix{
		m[3] / det, -m[1] / det,
		-m[2] / det, m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}

func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }
func Scale(sx, sy float64) Matrix     { return Matrix{sx, 0, 0, sy, 0, 0} }
func Rotate(angle float64) Matrix {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix{c, s, -s, c, 0, 0}
}

// Rect is an axis-aligned rectangle in whatever space it was produced in.
// Min/Max are not assumed ordered until Normalize is called.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Normalize() Rect {
	if r.MinX > r.MaxX {
		r.MinX, r.MaxX = r.MaxX, r.MinX
	}
	if r.MinY > r.MaxY {
		r.MinY, r.MaxY = r.MaxY, r.MinY
	}
	return r
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Inflate grows the rectangle by tol on every side.
func (r Rect) Inflate(tol float64) Rect {
	return Rect{r.MinX - tol, r.MinY - tol, r.MaxX + tol, r.MaxY + tol}
}

// Intersects reports whether r and o overlap, including touching edges.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX && r.MinY <= o.MaxY && o.MinY <= r.MaxY
}

// Contains reports whether p lies within r, edges inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// TransformRect maps all four corners of r through m and returns the
// axis-aligned bounding box of the result, normalized.
func TransformRect(m Matrix, r Rect) Rect {
	corners := [4]Point{
		m.Transform(Point{r.MinX, r.MinY}),
		m.Transform(Point{r.MaxX, r.MinY}),
		m.Transform(Point{r.MaxX, r.MaxY}),
		m.Transform(Point{r.MinX, r.MaxY}),
	}
	out := Rect{MinX: corners[0].X, MaxX: corners[0].X, MinY: corners[0].Y, MaxY: corners[0].Y}
	for _, c := range corners[1:] {
		out.MinX = math.Min(out.MinX, c.X)
		out.MaxX = math.Max(out.MaxX, c.X)
		out.MinY = math.Min(out.MinY, c.Y)
		out.MaxY = math.Max(out.MaxY, c.Y)
	}
	return out
}

// Rotation is a page /Rotate value, always one of 0, 90, 180, 270 degrees
// clockwise as viewed.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// NormalizeRotation reduces an arbitrary /Rotate integer to one of the four
// canonical values, per the PDF spec's requirement that /Rotate be a
// multiple of 90.
func NormalizeRotation(degrees int) Rotation {
	d := ((degrees % 360) + 360) % 360
	d = (d / 90) * 90
	return Rotation(d)
}

// VisualToContent returns the matrix mapping visual-space coordinates (as a
// viewer displays them, after /Rotate is applied) back into unrotated
// content-stream space, following the corner formulas:
//
//	0:   (x, y) -> (x, y)
//	90:  (x, y) -> (H-y, x)
//	180: (x, y) -> (W-x, H-y)
//	270: (x, y) -> (y, H-x)
//
// Externally supplied redaction rectangles are always given in visual
// space; this is the transform that brings them into content space for
// comparison against glyph positions.
func VisualToContent(rot Rotation, mediaWidth, mediaHeight float64) Matrix {
	switch rot {
	case Rotate90:
		return Matrix{0, 1, -1, 0, mediaHeight, 0}
	case Rotate180:
		return Matrix{-1, 0, 0, -1, mediaWidth, mediaHeight}
	case Rotate270:
		return Matrix{0, -1, 1, 0, 0, mediaHeight}
	default:
		return Identity()
	}
}

// ContentToVisual is the inverse of VisualToContent: it maps
// content-stream coordinates into visual space.
func ContentToVisual(rot Rotation, mediaWidth, mediaHeight float64) Matrix {
	m, err := VisualToContent(rot, mediaWidth, mediaHeight).Inverse()
	if err != nil {
		// VisualToContent is always one of four fixed orthogonal
		// matrices; it is never singular.
		return Identity()
	}
	return m
}
