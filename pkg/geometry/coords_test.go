package geometry

import (
	"math"
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/genomering/pkg/errors"
)

func TestNewCoordinateSystemRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		length int
		zoom   float64
		center int
	}{
		{"zero length", 0, 1, 1},
		{"negative length", -5, 1, 1},
		{"zoom below one", 100, 0.5, 1},
		{"nan zoom", 100, math.NaN(), 1},
		{"center zero", 100, 2, 0},
		{"center past end", 100, 2, 101},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCoordinateSystem(tt.length, tt.zoom, tt.center)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidGeometry))
		})
	}
}

func TestAngleOfUnzoomed(t *testing.T) {
	a, ok := AngleOf(1, 1, 1, 1000)
	require.True(t, ok)
	assert.Equal(t, 0.0, a)

	a, ok = AngleOf(251, 1, 1, 1000)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/2, a, 1e-12)

	a, _ = AngleOf(1001, 1, 1, 1000)
	assert.InDelta(t, FullCircle, a, 1e-12)
}

func TestAngleOfMonotonic(t *testing.T) {
	for _, length := range []int{1, 2, 7, 1000, 12078} {
		cs, err := NewCoordinateSystem(length, 1, 1)
		require.NoError(t, err)
		prev := -1.0
		for p := 1; p <= length; p++ {
			a, ok := cs.AngleOf(float64(p))
			require.True(t, ok)
			require.GreaterOrEqual(t, a, prev, "length %d position %d", length, p)
			require.Less(t, a, FullCircle)
			prev = a
		}
	}
}

func TestZoomOneMatchesUnzoomed(t *testing.T) {
	for _, center := range []int{1, 500, 1000} {
		cs, err := NewCoordinateSystem(1000, 1, center)
		require.NoError(t, err)
		for p := 1; p <= 1000; p += 37 {
			a, ok := cs.AngleOf(float64(p))
			require.True(t, ok)
			assert.Equal(t, FullCircle*float64(p-1)/1000, a)
		}
	}
}

func TestZoomClipsOutsideWindow(t *testing.T) {
	cs, err := NewCoordinateSystem(1000, 10, 500)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, cs.Window(), 1e-12)

	center, ok := cs.AngleOf(500)
	require.True(t, ok)
	assert.InDelta(t, FullCircle*499/1000, center, 1e-12)

	lo, ok := cs.AngleOf(450)
	require.True(t, ok)
	assert.InDelta(t, center-math.Pi, lo, 1e-9)

	hi, ok := cs.AngleOf(550)
	require.True(t, ok)
	assert.InDelta(t, center+math.Pi, hi, 1e-9)

	_, ok = cs.AngleOf(600)
	assert.False(t, ok)
	_, ok = cs.AngleOf(1)
	assert.False(t, ok)

	prev := math.Inf(-1)
	for p := 450; p <= 550; p++ {
		a, ok := cs.AngleOf(float64(p))
		require.True(t, ok)
		require.Greater(t, a, prev)
		prev = a
	}
}

func TestZoomWindowAcrossOrigin(t *testing.T) {
	cs, err := NewCoordinateSystem(1000, 10, 1)
	require.NoError(t, err)

	before, ok := cs.AngleOf(980)
	require.True(t, ok)
	after, ok := cs.AngleOf(20)
	require.True(t, ok)
	assert.Less(t, before, 0.0)
	assert.Greater(t, after, 0.0)
}

func TestMultiples(t *testing.T) {
	cs, err := NewCoordinateSystem(1000, 1, 1)
	require.NoError(t, err)
	got := cs.Multiples(250)
	assert.Equal(t, []int{250, 500, 750, 1000}, got)

	cs, err = NewCoordinateSystem(1000, 10, 1)
	require.NoError(t, err)
	got = cs.Multiples(10)
	assert.Equal(t, []int{960, 970, 980, 990, 1000, 10, 20, 30, 40, 50}, got)

	prev := math.Inf(-1)
	for _, v := range got {
		a, ok := cs.AngleOf(float64(v))
		require.True(t, ok, "position %d", v)
		require.Greater(t, a, prev, "position %d", v)
		prev = a
	}
	assert.Empty(t, cs.Multiples(0))
}

func TestMultiplesOnlyVisitsWindow(t *testing.T) {
	cs, err := NewCoordinateSystem(2_000_000_000, 1e8, 1000)
	require.NoError(t, err)
	got := cs.Multiples(1)
	require.Len(t, got, 21)
	assert.Equal(t, 990, got[0])
	assert.Equal(t, 1010, got[len(got)-1])
}

func TestSpansUnzoomedWrap(t *testing.T) {
	cs, err := NewCoordinateSystem(100, 1, 1)
	require.NoError(t, err)

	spans := cs.Spans(99, 101)
	require.Len(t, spans, 1)
	assert.InDelta(t, FullCircle*98/100, spans[0].Start, 1e-12)
	assert.InDelta(t, FullCircle*101/100, spans[0].End, 1e-12)
	assert.InDelta(t, FullCircle*3/100, spans[0].Width(), 1e-12)
}

func TestSpansZoomClipping(t *testing.T) {
	cs, err := NewCoordinateSystem(1000, 10, 500)
	require.NoError(t, err)

	assert.Empty(t, cs.Spans(700, 800))

	inside := cs.Spans(490, 509)
	require.Len(t, inside, 1)
	assert.InDelta(t, FullCircle*20/100, inside[0].Width(), 1e-9)

	clipped := cs.Spans(400, 480)
	require.Len(t, clipped, 1)
	start, _ := cs.AngleOf(450)
	assert.InDelta(t, start, clipped[0].Start, 1e-9)
}

func TestSpansEnterWindowFromBothSides(t *testing.T) {
	cs, err := NewCoordinateSystem(1000, 2, 500)
	require.NoError(t, err)

	// 700..1599 leaves the 250..750 window at 750 and re-enters it at 250.
	spans := cs.Spans(700, 1599)
	assert.Len(t, spans, 2)
}

func TestPoint(t *testing.T) {
	c := geom.Coord{X: 100, Y: 100}

	top := Point(c, 10, 0)
	assert.InDelta(t, 100, top.X, 1e-9)
	assert.InDelta(t, 90, top.Y, 1e-9)

	right := Point(c, 10, math.Pi/2)
	assert.InDelta(t, 110, right.X, 1e-9)
	assert.InDelta(t, 100, right.Y, 1e-9)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0.5, NormalizeAngle(0.5+FullCircle), 1e-12)
	assert.InDelta(t, FullCircle-0.5, NormalizeAngle(-0.5), 1e-12)
}
