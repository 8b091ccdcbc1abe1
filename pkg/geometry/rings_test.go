package geometry

import (
	"math"
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/genomering/pkg/errors"
)

func TestAllocateOrdersBands(t *testing.T) {
	alloc := RingAllocator{BackboneRadius: 190, BackboneThickness: 5, Spacing: 4}
	slots := []SlotSpec{
		{Strand: Outward, Thickness: 8},
		{Strand: Inward, Thickness: 8},
		{Strand: Outward, Thickness: 12},
		{Strand: Inward, Thickness: 6},
		{Strand: Outward, Thickness: 8},
	}
	rings, err := alloc.Allocate(slots)
	require.NoError(t, err)
	require.Len(t, rings.Bands, len(slots))

	assert.Equal(t, Band{Inner: 196.5, Outer: 204.5}, rings.Bands[0])
	assert.Equal(t, Band{Inner: 175.5, Outer: 183.5}, rings.Bands[1])

	var outward, inward []Band
	for i, s := range slots {
		if s.Strand == Outward {
			outward = append(outward, rings.Bands[i])
		} else {
			inward = append(inward, rings.Bands[i])
		}
	}
	for i := 1; i < len(outward); i++ {
		assert.Greater(t, outward[i].Inner, outward[i-1].Outer, "outward slot %d must sit outside slot %d", i, i-1)
	}
	for i := 1; i < len(inward); i++ {
		assert.Less(t, inward[i].Outer, inward[i-1].Inner, "inward slot %d must sit inside slot %d", i, i-1)
	}
	for i := range rings.Bands {
		assert.False(t, rings.Bands[i].Overlaps(rings.Backbone))
		for j := i + 1; j < len(rings.Bands); j++ {
			assert.False(t, rings.Bands[i].Overlaps(rings.Bands[j]), "bands %d and %d overlap", i, j)
		}
	}
	assert.Equal(t, outward[len(outward)-1].Outer, rings.Outermost())
	assert.Equal(t, inward[len(inward)-1].Inner, rings.Innermost())
}

func TestAllocateNoSlots(t *testing.T) {
	rings, err := RingAllocator{BackboneRadius: 100, BackboneThickness: 4}.Allocate(nil)
	require.NoError(t, err)
	assert.Empty(t, rings.Bands)
	assert.Equal(t, 102.0, rings.Outermost())
	assert.Equal(t, 98.0, rings.Innermost())
}

func TestAllocateRejectsOverflow(t *testing.T) {
	alloc := RingAllocator{BackboneRadius: 20, BackboneThickness: 2, Spacing: 2}
	slots := make([]SlotSpec, 5)
	for i := range slots {
		slots[i] = SlotSpec{Strand: Inward, Thickness: 8}
	}
	_, err := alloc.Allocate(slots)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidGeometry))
}

func TestAllocateRejectsBadThickness(t *testing.T) {
	_, err := RingAllocator{BackboneRadius: 100}.Allocate([]SlotSpec{{Strand: Outward}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidGeometry))
}

func TestBandSub(t *testing.T) {
	b := Band{Inner: 100, Outer: 110}
	tests := []struct {
		proportion, adjust float64
		want               Band
	}{
		{0, 0, b},
		{1, 0.5, b},
		{0.4, 0, Band{Inner: 100, Outer: 104}},
		{0.4, 1, Band{Inner: 106, Outer: 110}},
		{0.4, 0.5, Band{Inner: 103, Outer: 107}},
	}
	for _, tt := range tests {
		got := b.Sub(tt.proportion, tt.adjust)
		assert.InDelta(t, tt.want.Inner, got.Inner, 1e-9, "proportion %v adjust %v", tt.proportion, tt.adjust)
		assert.InDelta(t, tt.want.Outer, got.Outer, 1e-9, "proportion %v adjust %v", tt.proportion, tt.adjust)
	}
}

func TestAllocateRejectsNonFiniteRadius(t *testing.T) {
	for _, r := range []float64{math.NaN(), math.Inf(1), 0} {
		_, err := RingAllocator{BackboneRadius: r}.Allocate([]SlotSpec{{Strand: Outward, Thickness: 8}})
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidGeometry), "radius %v", r)
	}
}

func TestSectorFlattenStaysOnRadii(t *testing.T) {
	c := geom.Coord{X: 300, Y: 300}
	polys := Sector(100, 110, 0.2, 1.1).Flatten(c)
	require.Len(t, polys, 1)
	for _, p := range polys[0] {
		r := p.DistanceFrom(c)
		assert.True(t, math.Abs(r-100) < 1e-6 || math.Abs(r-110) < 1e-6, "point at radius %v", r)
	}
	first := polys[0][0]
	want := Point(c, 110, 0.2)
	assert.InDelta(t, want.X, first.X, 1e-9)
	assert.InDelta(t, want.Y, first.Y, 1e-9)
}

func TestSectorFullCircle(t *testing.T) {
	polys := Sector(95, 100, 0, FullCircle).Flatten(geom.Coord{X: 0, Y: 0})
	require.Len(t, polys, 2)
	b := Bounds(polys)
	assert.InDelta(t, -100, b.Min.X, 0.1)
	assert.InDelta(t, 100, b.Max.Y, 0.1)
}

func TestArrowTip(t *testing.T) {
	c := geom.Coord{}
	cw := Arrow(100, 110, 0, 0.5, 0.05, true)
	assert.Equal(t, PolarOp{Kind: LineTo, R: 105, Theta: 0.5}, cw[2])

	ccw := Arrow(100, 110, 0, 0.5, 0.05, false)
	assert.Equal(t, PolarOp{Kind: MoveTo, R: 105, Theta: 0}, ccw[0])

	short := Arrow(100, 110, 0, 0.01, 0.05, true)
	require.Len(t, short.Flatten(c), 1)
	assert.Len(t, short.Flatten(c)[0], 3)
}

func TestSegmentIntersectsRect(t *testing.T) {
	r := RectAt(10, 10, 10, 10)
	tests := []struct {
		name string
		p, q geom.Coord
		want bool
	}{
		{"through", geom.Coord{X: 0, Y: 15}, geom.Coord{X: 30, Y: 15}, true},
		{"inside", geom.Coord{X: 12, Y: 12}, geom.Coord{X: 13, Y: 13}, true},
		{"miss", geom.Coord{X: 0, Y: 0}, geom.Coord{X: 30, Y: 0}, false},
		{"stops short", geom.Coord{X: 0, Y: 15}, geom.Coord{X: 9, Y: 15}, false},
		{"grazes edge", geom.Coord{X: 0, Y: 10}, geom.Coord{X: 30, Y: 10}, false},
		{"diagonal", geom.Coord{X: 0, Y: 0}, geom.Coord{X: 30, Y: 30}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentIntersectsRect(tt.p, tt.q, r))
		})
	}
}

func TestIntersects(t *testing.T) {
	a := RectAt(0, 0, 10, 10)
	assert.True(t, Intersects(a, RectAt(5, 5, 10, 10)))
	assert.False(t, Intersects(a, RectAt(10, 0, 10, 10)), "touching edges do not intersect")
	assert.False(t, Intersects(a, RectAt(20, 20, 1, 1)))
}

func TestDistances(t *testing.T) {
	c := geom.Coord{}
	r := RectAt(3, 4, 3, 4)
	assert.InDelta(t, 5, MinDistance(c, r), 1e-12)
	assert.InDelta(t, 10, MaxDistance(c, r), 1e-12)
	assert.Equal(t, 0.0, MinDistance(geom.Coord{X: 4, Y: 5}, r))
}
