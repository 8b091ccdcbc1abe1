package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// RectAt builds a rectangle from its top-left corner and size.
func RectAt(x, y, w, h float64) geom.Rect {
	return geom.Rect{Min: geom.Coord{X: x, Y: y}, Max: geom.Coord{X: x + w, Y: y + h}}
}

// Inset shrinks r by d on every side (grows it when d is negative).
func Inset(r geom.Rect, d float64) geom.Rect {
	return geom.Rect{
		Min: geom.Coord{X: r.Min.X + d, Y: r.Min.Y + d},
		Max: geom.Coord{X: r.Max.X - d, Y: r.Max.Y - d},
	}
}

// Intersects reports whether two rectangles share interior area. Touching
// edges do not count.
func Intersects(a, b geom.Rect) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X &&
		a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
}

// Contains reports whether inner lies completely within outer.
func Contains(outer, inner geom.Rect) bool {
	return outer.ContainsRect(inner)
}

// SegmentIntersectsRect reports whether the segment p-q passes through the
// interior of r (Liang-Barsky clipping).
func SegmentIntersectsRect(p, q geom.Coord, r geom.Rect) bool {
	t0, t1 := 0.0, 1.0
	dx, dy := q.X-p.X, q.Y-p.Y
	clip := func(den, num float64) bool {
		if den == 0 {
			return num > 0
		}
		t := num / den
		if den < 0 {
			if t > t1 {
				return false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = math.Min(t1, t)
		}
		return true
	}
	// Strict interior: shrink by an epsilon so segments grazing an edge pass.
	const eps = 1e-9
	if !clip(-dx, p.X-(r.Min.X+eps)) ||
		!clip(dx, (r.Max.X-eps)-p.X) ||
		!clip(-dy, p.Y-(r.Min.Y+eps)) ||
		!clip(dy, (r.Max.Y-eps)-p.Y) {
		return false
	}
	return t0 < t1
}

// MinDistance returns the distance from c to the closest point of r.
func MinDistance(c geom.Coord, r geom.Rect) float64 {
	dx := math.Max(math.Max(r.Min.X-c.X, 0), c.X-r.Max.X)
	dy := math.Max(math.Max(r.Min.Y-c.Y, 0), c.Y-r.Max.Y)
	return math.Hypot(dx, dy)
}

// MaxDistance returns the distance from c to the farthest corner of r.
func MaxDistance(c geom.Coord, r geom.Rect) float64 {
	dx := math.Max(math.Abs(r.Min.X-c.X), math.Abs(r.Max.X-c.X))
	dy := math.Max(math.Abs(r.Min.Y-c.Y), math.Abs(r.Max.Y-c.Y))
	return math.Hypot(dx, dy)
}
