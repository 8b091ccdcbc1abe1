// Package geometry maps sequence positions onto a circle and allocates the
// concentric bands that slots are drawn in.
//
// Angles are measured in radians from 12 o'clock, increasing clockwise.
// Position 1 sits at angle 0. Without zoom, the mapping is
//
//	angle(p) = 2π·(p−1)/length
//
// and positions past the sequence length keep increasing past 2π, which lets a
// range that crosses the origin be described as one continuous arc.
//
// With zoom factor z > 1 a window of length/z bases centred on the zoom centre
// is stretched over the full circle. Positions outside the window are clipped
// (reported as not visible) rather than compressed.
package geometry

import (
	"math"

	"github.com/jbeda/geom"

	"github.com/matzehuels/genomering/pkg/errors"
)

// FullCircle is 2π.
const FullCircle = 2 * math.Pi

// CoordinateSystem converts sequence positions to angles for a fixed
// sequence length, zoom factor and zoom centre. The zero value is not usable;
// construct with NewCoordinateSystem.
type CoordinateSystem struct {
	length int
	zoom   float64
	center int
}

// NewCoordinateSystem validates the parameters and returns a coordinate system.
// Length must be positive, zoom at least 1 and the centre within [1, length].
func NewCoordinateSystem(length int, zoom float64, center int) (CoordinateSystem, error) {
	if length <= 0 {
		return CoordinateSystem{}, errors.InvalidGeometry("sequence length must be positive, got %d", length)
	}
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) || zoom < 1 {
		return CoordinateSystem{}, errors.InvalidGeometry("zoom must be >= 1, got %v", zoom)
	}
	if center < 1 || center > length {
		return CoordinateSystem{}, errors.InvalidGeometry("zoom center %d outside [1, %d]", center, length)
	}
	return CoordinateSystem{length: length, zoom: zoom, center: center}, nil
}

// Length returns the sequence length.
func (c CoordinateSystem) Length() int { return c.length }

// Zoom returns the zoom factor.
func (c CoordinateSystem) Zoom() float64 { return c.zoom }

// Center returns the zoom centre.
func (c CoordinateSystem) Center() int { return c.center }

// Zoomed reports whether a zoom window is active.
func (c CoordinateSystem) Zoomed() bool { return c.zoom > 1 }

// Window returns the number of bases visible around the circle.
func (c CoordinateSystem) Window() float64 {
	return float64(c.length) / c.zoom
}

// AngleOf returns the angle of a (possibly fractional) position and whether
// it is visible. See AngleOf for the mapping.
func (c CoordinateSystem) AngleOf(position float64) (float64, bool) {
	if !c.Zoomed() {
		return FullCircle * (position - 1) / float64(c.length), true
	}
	d := c.offset(position)
	half := c.Window() / 2
	visible := math.Abs(d) <= half+1e-9
	return c.centerAngle() + FullCircle*d/c.Window(), visible
}

// AngleOf is the pure form of CoordinateSystem.AngleOf. Invalid parameters
// yield (0, false).
func AngleOf(position, zoom float64, zoomCenter, length int) (float64, bool) {
	cs, err := NewCoordinateSystem(length, zoom, zoomCenter)
	if err != nil {
		return 0, false
	}
	return cs.AngleOf(position)
}

// Visible reports whether position falls inside the zoom window.
func (c CoordinateSystem) Visible(position float64) bool {
	_, ok := c.AngleOf(position)
	return ok
}

// BaseArc returns the angular extent covered by one base.
func (c CoordinateSystem) BaseArc() float64 {
	return FullCircle / c.Window()
}

// Span is a visible angular interval with Start <= End.
type Span struct {
	Start, End float64
}

// Width returns End-Start.
func (s Span) Width() float64 { return s.End - s.Start }

// Mid returns the angle halfway between Start and End.
func (s Span) Mid() float64 { return (s.Start + s.End) / 2 }

// Spans returns the visible angular spans of the closed position interval
// [from, to], where from <= to and to-from < length. Each base occupies the
// arc from its own angle to the angle of the next base, so the spans cover
// [angle(from), angle(to+1)]. Without zoom exactly one span is returned. With
// zoom the interval is clipped to the window; an interval that enters the
// window from both sides yields two spans, and one entirely outside yields
// none.
func (c CoordinateSystem) Spans(from, to float64) []Span {
	if to < from {
		return nil
	}
	if !c.Zoomed() {
		a, _ := c.AngleOf(from)
		b, _ := c.AngleOf(to + 1)
		return []Span{{Start: a, End: b}}
	}

	half := c.Window() / 2
	length := float64(c.length)
	ds := c.offset(from)
	de := ds + (to + 1 - from)

	var spans []Span
	for _, shift := range []float64{0, -length, length} {
		lo := math.Max(ds+shift, -half)
		hi := math.Min(de+shift, half)
		if hi <= lo {
			continue
		}
		spans = append(spans, Span{
			Start: c.centerAngle() + FullCircle*lo/c.Window(),
			End:   c.centerAngle() + FullCircle*hi/c.Window(),
		})
	}
	return spans
}

// Multiples returns the multiples of step in [1, length] that fall inside
// the zoom window, ordered by angle. The cost is proportional to the number
// of positions returned, not to the sequence length.
func (c CoordinateSystem) Multiples(step int) []int {
	if step <= 0 {
		return nil
	}
	length := float64(c.length)
	lo, hi := 1.0, length
	shifts := []float64{0}
	if c.Zoomed() {
		half := c.Window() / 2
		lo, hi = float64(c.center)-half, float64(c.center)+half
		// Window positions below 1 wrap to the end of the sequence and come
		// first by angle; positions past length wrap to the start.
		shifts = []float64{length, 0, -length}
	}

	var out []int
	for _, shift := range shifts {
		from := math.Max(lo+shift, 1)
		to := math.Min(hi+shift, length)
		if to < from {
			continue
		}
		first := int(math.Ceil(from/float64(step))) * step
		for v := first; float64(v) <= to; v += step {
			if c.Visible(float64(v)) {
				out = append(out, v)
			}
		}
	}
	return out
}

// offset wraps position-center into [-length/2, length/2).
func (c CoordinateSystem) offset(position float64) float64 {
	length := float64(c.length)
	d := math.Mod(position-float64(c.center), length)
	if d < -length/2 {
		d += length
	} else if d >= length/2 {
		d -= length
	}
	return d
}

// centerAngle is the unzoomed angle of the zoom centre, which stays fixed
// when zooming so that zoom=1 and the unzoomed mapping agree.
func (c CoordinateSystem) centerAngle() float64 {
	return FullCircle * float64(c.center-1) / float64(c.length)
}

// Point converts polar coordinates around center to canvas coordinates.
// Canvas y grows downward, so angle 0 points up.
func Point(center geom.Coord, radius, angle float64) geom.Coord {
	return geom.Coord{
		X: center.X + radius*math.Sin(angle),
		Y: center.Y - radius*math.Cos(angle),
	}
}

// NormalizeAngle reduces an angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, FullCircle)
	if a < 0 {
		a += FullCircle
	}
	return a
}
