package geometry

import (
	"math"

	"github.com/matzehuels/genomering/pkg/errors"
)

// Strand selects which side of the backbone a slot stacks on.
type Strand int

const (
	// Outward stacks away from the centre (direct strand).
	Outward Strand = iota
	// Inward stacks toward the centre (reverse strand).
	Inward
)

// Band is the radial extent of one slot.
type Band struct {
	Inner float64
	Outer float64
}

// Mid returns the radius halfway through the band.
func (b Band) Mid() float64 { return (b.Inner + b.Outer) / 2 }

// Thickness returns Outer-Inner.
func (b Band) Thickness() float64 { return b.Outer - b.Inner }

// Sub returns the part of b covered by a shape drawn with the given
// proportion of its thickness. adjust moves the shape from the inner edge
// (0) to the outer edge (1); it never leaves b. A proportion outside (0, 1)
// yields b.
func (b Band) Sub(proportion, adjust float64) Band {
	if !(proportion > 0 && proportion < 1) {
		return b
	}
	t := b.Thickness()
	half := proportion * t / 2
	c := min(max(b.Inner+adjust*t, b.Inner+half), b.Outer-half)
	return Band{Inner: c - half, Outer: c + half}
}

// Overlaps reports whether two bands share any radius.
func (b Band) Overlaps(o Band) bool {
	return b.Inner < o.Outer && o.Inner < b.Outer
}

// SlotSpec describes one slot for allocation.
type SlotSpec struct {
	Strand    Strand
	Thickness float64
}

// RingAllocator assigns radial bands to slots around a backbone ring.
type RingAllocator struct {
	BackboneRadius    float64
	BackboneThickness float64
	Spacing           float64
}

// Rings is the result of an allocation.
type Rings struct {
	// Bands is indexed like the input slots.
	Bands []Band
	// Backbone is the band occupied by the backbone itself.
	Backbone Band
}

// Allocate assigns bands in declaration order. Outward slots start just
// outside the backbone and each subsequent one sits further out; inward
// slots mirror this toward the centre. Consecutive bands are separated by
// Spacing. An inward band that would reach the centre is an
// INVALID_GEOMETRY error.
func (a RingAllocator) Allocate(slots []SlotSpec) (Rings, error) {
	if !(a.BackboneRadius > 0) || math.IsInf(a.BackboneRadius, 1) {
		return Rings{}, errors.InvalidGeometry("backbone radius must be finite and positive, got %v", a.BackboneRadius)
	}
	if !(a.BackboneThickness >= 0) || !(a.Spacing >= 0) {
		return Rings{}, errors.InvalidGeometry("backbone thickness and slot spacing must not be negative")
	}

	half := a.BackboneThickness / 2
	r := Rings{
		Bands:    make([]Band, len(slots)),
		Backbone: Band{Inner: a.BackboneRadius - half, Outer: a.BackboneRadius + half},
	}

	out := r.Backbone.Outer
	in := r.Backbone.Inner
	for i, s := range slots {
		if s.Thickness <= 0 {
			return Rings{}, errors.InvalidGeometry("slot %d thickness must be positive, got %v", i, s.Thickness)
		}
		switch s.Strand {
		case Outward:
			inner := out + a.Spacing
			r.Bands[i] = Band{Inner: inner, Outer: inner + s.Thickness}
			out = r.Bands[i].Outer
		case Inward:
			outer := in - a.Spacing
			r.Bands[i] = Band{Inner: outer - s.Thickness, Outer: outer}
			if r.Bands[i].Inner <= 0 {
				return Rings{}, errors.InvalidGeometry("slot %d does not fit inside backbone radius %v", i, a.BackboneRadius)
			}
			in = r.Bands[i].Inner
		default:
			return Rings{}, errors.InvalidGeometry("slot %d has unknown strand %d", i, s.Strand)
		}
	}
	return r, nil
}

// Outermost returns the outer radius of everything allocated, including the
// backbone.
func (r Rings) Outermost() float64 {
	m := r.Backbone.Outer
	for _, b := range r.Bands {
		m = max(m, b.Outer)
	}
	return m
}

// Innermost returns the inner radius of everything allocated, including the
// backbone.
func (r Rings) Innermost() float64 {
	m := r.Backbone.Inner
	for _, b := range r.Bands {
		m = min(m, b.Inner)
	}
	return m
}
