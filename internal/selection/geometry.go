package selection

// Point is a position in cell coordinates.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle. Right and Bottom are inclusive, so a
// single cell at (x, y) is Rect{x, y, x, y}.
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectAt returns the rectangle of w×h cells whose top-left cell is (x, y).
func RectAt(x, y, w, h int) Rect {
	return Rect{Left: x, Top: y, Right: x + w - 1, Bottom: y + h - 1}
}

// RectFrom returns the normalized rectangle spanned by two corners.
func RectFrom(a, b Point) Rect {
	return Rect{
		Left:   min(a.X, b.X),
		Top:    min(a.Y, b.Y),
		Right:  max(a.X, b.X),
		Bottom: max(a.Y, b.Y),
	}
}

// Intersects reports whether r and o overlap. Rectangles that only touch
// on an edge overlap.
func (r Rect) Intersects(o Rect) bool {
	return !(r.Left > o.Right || r.Right < o.Left ||
		r.Top > o.Bottom || r.Bottom < o.Top)
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Width returns the number of columns covered by r.
func (r Rect) Width() int { return r.Right - r.Left + 1 }

// Height returns the number of rows covered by r.
func (r Rect) Height() int { return r.Bottom - r.Top + 1 }

// Translate shifts r by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Box is a drag rectangle in container-local coordinates, as the pointer
// moved it: the start corner stays put and the end corner follows the
// pointer.
type Box struct {
	StartX, StartY int
	EndX, EndY     int
}

// Rect returns the normalized rectangle covered by b.
func (b Box) Rect() Rect {
	return RectFrom(Point{b.StartX, b.StartY}, Point{b.EndX, b.EndY})
}
