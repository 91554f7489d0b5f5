// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "math"

// Point is a location on the physical pixel grid of an output.
type Point struct {
	X, Y int
}

// Add returns the point translated by p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Sub returns the point translated by the negation of p2.
func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

// Size is an extent in physical pixels.
type Size struct {
	W, H int
}

// IsEmpty reports whether the size spans no pixels.
func (s Size) IsEmpty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is an axis-aligned rectangle in physical pixels.
//
// Coordinates are inclusive-exclusive: a Rect covers the pixels with
// x in [X, X+W) and y in [Y, Y+H). A Rect with non-positive width or
// height is empty and covers nothing.
//
// Rect is the unit of all damage bookkeeping. The one primitive the
// rest of the repository leans on is Subtract, which cuts one
// rectangle out of another yielding up to four non-overlapping parts.
type Rect struct {
	X, Y, W, H int
}

// RectFromLocSize builds a Rect from a location and a size.
func RectFromLocSize(loc Point, size Size) Rect {
	return Rect{X: loc.X, Y: loc.Y, W: size.W, H: size.H}
}

// Loc returns the top-left corner of the rectangle.
func (r Rect) Loc() Point {
	return Point{X: r.X, Y: r.Y}
}

// Dim returns the extent of the rectangle.
func (r Rect) Dim() Size {
	return Size{W: r.W, H: r.H}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// IsEmpty reports whether the rectangle covers no pixels.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Area returns the number of pixels covered by the rectangle.
func (r Rect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.W * r.H
}

// Translate returns the rectangle moved by the given offset.
func (r Rect) Translate(offset Point) Rect {
	return Rect{X: r.X + offset.X, Y: r.Y + offset.Y, W: r.W, H: r.H}
}

// Overlaps reports whether the two rectangles share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	if o.IsEmpty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersection returns the overlapping region of the two rectangles.
// ok is false when they do not overlap.
func (r Rect) Intersection(o Rect) (Rect, bool) {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// Merge returns the axis-aligned bounding union of the two rectangles.
// Empty rectangles do not extend the result.
func (r Rect) Merge(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.Right(), o.Right())
	y1 := max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Subtract removes o from r. The result is a set of up to four
// non-overlapping rectangles covering exactly the pixels of r that are
// not in o. Subtracting a non-overlapping rectangle returns r alone;
// subtracting a covering rectangle returns nil.
func (r Rect) Subtract(o Rect) []Rect {
	if r.IsEmpty() {
		return nil
	}
	inter, ok := r.Intersection(o)
	if !ok {
		return []Rect{r}
	}
	if inter == r {
		return nil
	}

	out := make([]Rect, 0, 4)
	// Band above the hole.
	if inter.Y > r.Y {
		out = append(out, Rect{X: r.X, Y: r.Y, W: r.W, H: inter.Y - r.Y})
	}
	// Band below the hole.
	if inter.Bottom() < r.Bottom() {
		out = append(out, Rect{X: r.X, Y: inter.Bottom(), W: r.W, H: r.Bottom() - inter.Bottom()})
	}
	// Left and right flanks, limited to the hole's vertical span.
	if inter.X > r.X {
		out = append(out, Rect{X: r.X, Y: inter.Y, W: inter.X - r.X, H: inter.H})
	}
	if inter.Right() < r.Right() {
		out = append(out, Rect{X: inter.Right(), Y: inter.Y, W: r.Right() - inter.Right(), H: inter.H})
	}
	return out
}

// SubtractAll removes every rectangle in regions from every rectangle
// in set. The input sets are not modified.
func SubtractAll(set []Rect, regions []Rect) []Rect {
	out := append([]Rect(nil), set...)
	for _, region := range regions {
		if region.IsEmpty() {
			continue
		}
		next := make([]Rect, 0, len(out))
		for _, r := range out {
			next = append(next, r.Subtract(region)...)
		}
		out = next
	}
	return out
}

// Scale maps a rectangle from logical to physical coordinates by the
// given factor, rounding so that the result never shrinks below the
// covered logical pixels.
func (r Rect) Scale(scale float64) Rect {
	if scale == 1.0 {
		return r
	}
	x0 := int(math.Floor(float64(r.X) * scale))
	y0 := int(math.Floor(float64(r.Y) * scale))
	x1 := int(math.Ceil(float64(r.Right()) * scale))
	y1 := int(math.Ceil(float64(r.Bottom()) * scale))
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// RectF is an axis-aligned rectangle with sub-pixel precision. It is
// used for source regions sampled out of element buffers.
type RectF struct {
	X, Y, W, H float64
}

// RectFFromRect converts an integer rectangle.
func RectFFromRect(r Rect) RectF {
	return RectF{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)}
}

// IsEmpty reports whether the rectangle covers no area.
func (r RectF) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}
