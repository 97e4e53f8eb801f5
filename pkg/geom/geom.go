// Package geom provides the rectangle math shared by the positioning and
// interaction packages.
//
// All values are CSS pixels in viewport coordinates: X grows right, Y grows
// down. Rects are immutable snapshots; every operation returns a new value.
package geom

import "math"

// Point is a position in viewport coordinates.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// IsZero reports whether the size is the zero value.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Rect is a read-only snapshot of an element's screen geometry at a point in
// time. It is never mutated in place; fresh geometry is always re-measured.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// RectFrom builds a rect from an origin and size.
func RectFrom(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Width: width, Height: height}
}

// RectFromEdges builds a rect from its four edges.
func RectFromEdges(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// RectOf builds a rect at the origin with the given size.
func RectOf(s Size) Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

// Normalize returns an equivalent rect with non-negative width and height,
// flipping the origin as needed. Measurement sources occasionally report
// inverted boxes; all math in this module assumes normalized input.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.Left += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Top += r.Height
		r.Height = -r.Height
	}
	return r
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// CenterX returns the horizontal midpoint.
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }

// CenterY returns the vertical midpoint.
func (r Rect) CenterY() float64 { return r.Top + r.Height/2 }

// Center returns the midpoint.
func (r Rect) Center() Point { return Point{X: r.CenterX(), Y: r.CenterY()} }

// Size returns the rect's size.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// IsZero reports whether the rect is the zero value. The zero rect is used
// as the "no boundary supplied" sentinel by the positioning config.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Contains reports whether the point lies inside the rect, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.Left >= r.Left && o.Right() <= r.Right() &&
		o.Top >= r.Top && o.Bottom() <= r.Bottom()
}

// Intersects reports whether the two rects share any area. Touching edges do
// not count as overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right() && r.Right() > o.Left &&
		r.Top < o.Bottom() && r.Bottom() > o.Top
}

// Intersection returns the overlapping region, or the zero rect when the two
// rects do not intersect.
func (r Rect) Intersection(o Rect) Rect {
	left := math.Max(r.Left, o.Left)
	top := math.Max(r.Top, o.Top)
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return Rect{}
	}
	return RectFromEdges(left, top, right, bottom)
}

// Inset shrinks the rect by d on every side. A negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{Left: r.Left + d, Top: r.Top + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Translate returns the rect moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Width: r.Width, Height: r.Height}
}

// Clamp limits v to [lo, hi]. When lo > hi the lower bound wins, which is the
// behavior wanted when a floating box is larger than its boundary: it pins to
// the leading edge rather than oscillating.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
