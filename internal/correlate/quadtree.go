package correlate

import "github.com/inkfold/redactpdf/internal/coords"

// quadTree spatially indexes bounding boxes (the correlator stores each
// operation's inflated glyph-union box) so the correlator can cheaply
// answer "which operations might fall inside this redaction rectangle"
// instead of comparing every operation against every rectangle.
type quadTree struct {
	bounds   coords.Rect
	capacity int
	points   []indexedRect
	nodes    []*quadTree
}

type indexedRect struct {
	rect  coords.Rect
	index int
}

func newQuadTree(bounds coords.Rect, capacity int) *quadTree {
	return &quadTree{bounds: bounds, capacity: capacity, points: make([]indexedRect, 0, capacity)}
}

func (qt *quadTree) insert(rect coords.Rect, index int) bool {
	if !qt.bounds.Intersects(rect) {
		return false
	}
	if qt.nodes != nil {
		for _, node := range qt.nodes {
			if rectContains(node.bounds, rect) {
				if node.insert(rect, index) {
					return true
				}
			}
		}
		qt.points = append(qt.points, indexedRect{rect, index})
		return true
	}
	if len(qt.points) < qt.capacity {
		qt.points = append(qt.points, indexedRect{rect, index})
		return true
	}
	qt.subdivide()
	old := qt.points
	qt.points = make([]indexedRect, 0, qt.capacity)
	for _, p := range old {
		qt.insert(p.rect, p.index)
	}
	return qt.insert(rect, index)
}

func (qt *quadTree) subdivide() {
	xMid := (qt.bounds.MinX + qt.bounds.MaxX) / 2
	yMid := (qt.bounds.MinY + qt.bounds.MaxY) / 2
	qt.nodes = []*quadTree{
		newQuadTree(coords.Rect{MinX: qt.bounds.MinX, MinY: yMid, MaxX: xMid, MaxY: qt.bounds.MaxY}, qt.capacity),
		newQuadTree(coords.Rect{MinX: xMid, MinY: yMid, MaxX: qt.bounds.MaxX, MaxY: qt.bounds.MaxY}, qt.capacity),
		newQuadTree(coords.Rect{MinX: qt.bounds.MinX, MinY: qt.bounds.MinY, MaxX: xMid, MaxY: yMid}, qt.capacity),
		newQuadTree(coords.Rect{MinX: xMid, MinY: qt.bounds.MinY, MaxX: qt.bounds.MaxX, MaxY: yMid}, qt.capacity),
	}
}

func (qt *quadTree) query(rng coords.Rect) []int {
	var found []int
	if !qt.bounds.Intersects(rng) {
		return found
	}
	for _, p := range qt.points {
		if p.rect.Intersects(rng) {
			found = append(found, p.index)
		}
	}
	for _, node := range qt.nodes {
		found = append(found, node.query(rng)...)
	}
	return found
}

func rectContains(outer, inner coords.Rect) bool {
	return inner.MinX >= outer.MinX && inner.MaxX <= outer.MaxX &&
		inner.MinY >= outer.MinY && inner.MaxY <= outer.MaxY
}
