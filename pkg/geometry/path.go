package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// OpKind is a polar path operation.
type OpKind uint8

const (
	// MoveTo starts a new subpath.
	MoveTo OpKind = iota
	// LineTo draws a straight segment.
	LineTo
	// ArcTo follows the circle of radius R from the current angle to Theta.
	// R must equal the radius of the current point.
	ArcTo
	// Close closes the current subpath.
	Close
)

// PolarOp is one step of a PolarPath.
type PolarOp struct {
	Kind  OpKind
	R     float64
	Theta float64
}

// PolarPath is an outline in polar coordinates. Both renderers consume the
// same PolarPath: vector output keeps arcs exact, raster output flattens them
// with Flatten.
type PolarPath []PolarOp

// Sector returns the annular sector between two radii and two angles.
// A full circle (end-start >= 2π) is split so every arc stays below π.
func Sector(inner, outer, start, end float64) PolarPath {
	if end-start >= FullCircle {
		// Two closed rings with opposite winding leave the hole unfilled
		// under the non-zero rule.
		return PolarPath{
			{Kind: MoveTo, R: outer, Theta: start},
			{Kind: ArcTo, R: outer, Theta: start + math.Pi},
			{Kind: ArcTo, R: outer, Theta: start + FullCircle},
			{Kind: Close},
			{Kind: MoveTo, R: inner, Theta: start},
			{Kind: ArcTo, R: inner, Theta: start - math.Pi},
			{Kind: ArcTo, R: inner, Theta: start - FullCircle},
			{Kind: Close},
		}
	}
	return PolarPath{
		{Kind: MoveTo, R: outer, Theta: start},
		{Kind: ArcTo, R: outer, Theta: end},
		{Kind: LineTo, R: inner, Theta: end},
		{Kind: ArcTo, R: inner, Theta: start},
		{Kind: Close},
	}
}

// Arrow returns a sector whose leading end is pointed. head is the angular
// length of the arrowhead. A clockwise arrow points at end, a
// counter-clockwise one at start. When the span is shorter than the head the
// whole shape is a triangle.
func Arrow(inner, outer, start, end, head float64, clockwise bool) PolarPath {
	mid := (inner + outer) / 2
	if clockwise {
		if end-start <= head {
			return PolarPath{
				{Kind: MoveTo, R: outer, Theta: start},
				{Kind: LineTo, R: mid, Theta: end},
				{Kind: LineTo, R: inner, Theta: start},
				{Kind: Close},
			}
		}
		return PolarPath{
			{Kind: MoveTo, R: outer, Theta: start},
			{Kind: ArcTo, R: outer, Theta: end - head},
			{Kind: LineTo, R: mid, Theta: end},
			{Kind: LineTo, R: inner, Theta: end - head},
			{Kind: ArcTo, R: inner, Theta: start},
			{Kind: Close},
		}
	}
	if end-start <= head {
		return PolarPath{
			{Kind: MoveTo, R: mid, Theta: start},
			{Kind: LineTo, R: outer, Theta: end},
			{Kind: LineTo, R: inner, Theta: end},
			{Kind: Close},
		}
	}
	return PolarPath{
		{Kind: MoveTo, R: mid, Theta: start},
		{Kind: LineTo, R: outer, Theta: start + head},
		{Kind: ArcTo, R: outer, Theta: end},
		{Kind: LineTo, R: inner, Theta: end},
		{Kind: ArcTo, R: inner, Theta: start + head},
		{Kind: Close},
	}
}

// flatness is the maximum distance in pixels between an arc and its chords.
const flatness = 0.2

// arcSteps returns how many chords approximate an arc of radius r sweeping
// sweep radians.
func arcSteps(r, sweep float64) int {
	sweep = math.Abs(sweep)
	if r <= flatness || sweep == 0 {
		return 1
	}
	maxStep := 2 * math.Acos(1-flatness/r)
	maxStep = min(maxStep, math.Pi/90)
	return max(1, int(math.Ceil(sweep/maxStep)))
}

// Flatten converts the path to polygons in canvas coordinates, one per
// subpath. Arcs are replaced by chords no further than 0.2px from the true
// circle.
func (p PolarPath) Flatten(center geom.Coord) [][]geom.Coord {
	var (
		out   [][]geom.Coord
		cur   []geom.Coord
		theta float64
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
	}
	for _, op := range p {
		switch op.Kind {
		case MoveTo:
			flush()
			cur = append(cur, Point(center, op.R, op.Theta))
			theta = op.Theta
		case LineTo:
			cur = append(cur, Point(center, op.R, op.Theta))
			theta = op.Theta
		case ArcTo:
			n := arcSteps(op.R, op.Theta-theta)
			for i := 1; i <= n; i++ {
				a := theta + (op.Theta-theta)*float64(i)/float64(n)
				cur = append(cur, Point(center, op.R, a))
			}
			theta = op.Theta
		case Close:
			flush()
		}
	}
	flush()
	return out
}

// Bounds returns the bounding rectangle of a set of polygons.
func Bounds(polys [][]geom.Coord) geom.Rect {
	var r geom.Rect
	first := true
	for _, poly := range polys {
		for _, c := range poly {
			if first {
				r = geom.Rect{Min: c, Max: c}
				first = false
				continue
			}
			r.ExpandToContainCoord(c)
		}
	}
	return r
}
