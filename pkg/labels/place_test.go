package labels

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/genomering/pkg/geometry"
)

// fixedMeasurer gives every glyph the same advance.
type fixedMeasurer struct{}

func (fixedMeasurer) Measure(text string, size float64) Metrics {
	return Metrics{Width: 0.6 * size * float64(len(text)), Ascent: 0.8 * size, Descent: 0.2 * size}
}

func testParams(q int) Params {
	return Params{
		Quality:    q,
		FontSize:   10,
		LineLength: 50,
		OuterStart: 215,
		InnerStart: 160,
		Center:     geom.Coord{X: 350, Y: 350},
		Canvas:     geometry.RectAt(0, 0, 700, 700),
	}
}

// crowded returns n outer requests at pseudo-random angles.
func crowded(n int, seed uint64) []Request {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	reqs := make([]Request, n)
	for i := range reqs {
		reqs[i] = Request{
			ID:    i,
			Text:  fmt.Sprintf("feature_%d", i),
			Angle: rng.Float64() * geometry.FullCircle,
		}
	}
	return reqs
}

func assertNoOverlap(t *testing.T, p *Placement) {
	t.Helper()
	for i := range p.Labels {
		for j := i + 1; j < len(p.Labels); j++ {
			a, b := p.Labels[i], p.Labels[j]
			if a.Forced && b.Forced {
				continue
			}
			require.False(t, geometry.Intersects(a.Box, b.Box), "labels %d and %d overlap", a.ID, b.ID)
		}
	}
}

func TestPlaceDeterministic(t *testing.T) {
	reqs := crowded(150, 7)
	first := Place(reqs, testParams(8), fixedMeasurer{})
	second := Place(reqs, testParams(8), fixedMeasurer{})
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first.Fingerprint)
}

func TestPlaceNoOverlap(t *testing.T) {
	for _, q := range []int{1, 5, 10} {
		t.Run(fmt.Sprintf("quality %d", q), func(t *testing.T) {
			p := Place(crowded(300, 42), testParams(q), fixedMeasurer{})
			assert.NotEmpty(t, p.Labels)
			assert.Equal(t, 300, len(p.Labels)+len(p.Suppressed))
			assertNoOverlap(t, p)
		})
	}
}

func TestPlaceQualityMonotonic(t *testing.T) {
	reqs := crowded(250, 3)
	prev := -1
	for q := MinQuality; q <= MaxQuality; q++ {
		n := len(Place(reqs, testParams(q), fixedMeasurer{}).Labels)
		assert.GreaterOrEqual(t, n, prev, "quality %d placed fewer labels than quality %d", q, q-1)
		prev = n
	}
}

func TestPlaceSparseLabelsAllPlaced(t *testing.T) {
	reqs := []Request{
		{ID: 0, Text: "dnaA", Angle: 0},
		{ID: 1, Text: "gyrB", Angle: math.Pi / 2},
		{ID: 2, Text: "recF", Angle: math.Pi},
		{ID: 3, Text: "oriC", Angle: 3 * math.Pi / 2},
	}
	p := Place(reqs, testParams(1), fixedMeasurer{})
	require.Len(t, p.Labels, 4)
	assert.Empty(t, p.Suppressed)
	assert.Equal(t, 1, p.Quality)

	c := geom.Coord{X: 350, Y: 350}
	for _, l := range p.Labels {
		assert.GreaterOrEqual(t, geometry.MinDistance(c, l.Box), 215.0)
		require.Len(t, l.Line, 2, "an uncontested label needs no extension")
		assert.InDelta(t, 215, l.Line[0].DistanceFrom(c), 1e-9)
	}

	// The label at 3 o'clock starts at its leader line.
	right, ok := p.Lookup(1)
	require.True(t, ok)
	assert.Greater(t, right.Box.Min.X, right.Line[1].X)
}

func TestPlaceClippedAndHidden(t *testing.T) {
	reqs := []Request{
		{ID: 0, Text: "visible", Angle: 0.1},
		{ID: 1, Text: "clipped", Angle: 1, Clipped: true},
		{ID: 2, Text: "inner", Angle: 2, Side: Inner},
	}
	params := testParams(5)
	params.InnerMode = InnerHidden
	p := Place(reqs, params, fixedMeasurer{})

	require.Len(t, p.Labels, 1)
	require.Len(t, p.Suppressed, 2)
	assert.Equal(t, ReasonOutOfWindow, p.Suppressed[0].Reason)
	assert.Equal(t, ReasonHidden, p.Suppressed[1].Reason)
	assert.Equal(t, 0, p.Exhausted())
}

func TestPlaceInnerModes(t *testing.T) {
	reqs := []Request{{ID: 0, Text: "rev", Angle: math.Pi / 2, Side: Inner}}
	c := geom.Coord{X: 350, Y: 350}

	t.Run("shown stays inside", func(t *testing.T) {
		params := testParams(5)
		params.InnerMode = InnerShown
		p := Place(reqs, params, fixedMeasurer{})
		require.Len(t, p.Labels, 1)
		assert.Equal(t, Inner, p.Labels[0].Side)
		assert.LessOrEqual(t, geometry.MaxDistance(c, p.Labels[0].Box), 160.0)
	})

	t.Run("relocate moves outward", func(t *testing.T) {
		params := testParams(5)
		params.InnerMode = InnerRelocate
		p := Place(reqs, params, fixedMeasurer{})
		require.Len(t, p.Labels, 1)
		assert.Equal(t, Outer, p.Labels[0].Side)
	})

	t.Run("auto falls back to outer", func(t *testing.T) {
		params := testParams(5)
		params.InnerStart = 30 // too small for any inner box
		p := Place(reqs, params, fixedMeasurer{})
		require.Len(t, p.Labels, 1)
		assert.Equal(t, Outer, p.Labels[0].Side)
	})

	t.Run("shown without room is exhausted", func(t *testing.T) {
		params := testParams(5)
		params.InnerStart = 30
		params.InnerMode = InnerShown
		p := Place(reqs, params, fixedMeasurer{})
		assert.Empty(t, p.Labels)
		assert.Equal(t, 1, p.Exhausted())
	})
}

func TestPlaceExhaustionCounted(t *testing.T) {
	params := testParams(10)
	// Every point of this canvas is closer to the centre than a leader line ends.
	params.Canvas = geometry.RectAt(200, 200, 300, 300)
	p := Place(crowded(20, 1), params, fixedMeasurer{})
	assert.Empty(t, p.Labels)
	assert.Equal(t, 20, p.Exhausted())
}

func TestPlaceForcedLabel(t *testing.T) {
	params := testParams(3)
	params.Canvas = geometry.RectAt(200, 200, 300, 300)
	reqs := []Request{
		{ID: 0, Text: "origin", Angle: 0, Force: true},
		{ID: 1, Text: "other", Angle: 0.01},
	}
	p := Place(reqs, params, fixedMeasurer{})
	require.Len(t, p.Labels, 1)
	assert.Equal(t, 0, p.Labels[0].ID)
	assert.True(t, p.Labels[0].Forced)
	assert.Equal(t, 1, p.Exhausted())
}

func TestPlaceAvoidsObstacles(t *testing.T) {
	params := testParams(10)
	// Block the area above the map where a label at 12 o'clock would go.
	params.Obstacles = []geom.Rect{geometry.RectAt(320, 60, 60, 30)}
	p := Place([]Request{{ID: 0, Text: "top", Angle: 0}}, params, fixedMeasurer{})
	require.Len(t, p.Labels, 1)
	assert.False(t, geometry.Intersects(p.Labels[0].Box, params.Obstacles[0]))
	assert.NotEqual(t, 0.0, p.Labels[0].Line[1].X-350, "label should have been shifted sideways")
}

func TestFingerprintChangesWithInputs(t *testing.T) {
	reqs := crowded(10, 9)
	base := Fingerprint(reqs, testParams(5))
	assert.Equal(t, base, Fingerprint(reqs, testParams(5)))

	moved := append([]Request(nil), reqs...)
	moved[3].Angle += 0.01
	assert.NotEqual(t, base, Fingerprint(moved, testParams(5)))

	bigger := testParams(5)
	bigger.Canvas = geometry.RectAt(0, 0, 800, 800)
	assert.NotEqual(t, base, Fingerprint(reqs, bigger))

	// Quality is clamped before hashing.
	assert.Equal(t, Fingerprint(reqs, testParams(10)), Fingerprint(reqs, testParams(99)))
}

func TestInnerModeText(t *testing.T) {
	for _, m := range []InnerMode{InnerAuto, InnerShown, InnerHidden, InnerRelocate} {
		b, err := m.MarshalText()
		require.NoError(t, err)
		var got InnerMode
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, m, got)
	}
	var m InnerMode
	assert.Error(t, m.UnmarshalText([]byte("sideways")))
}

func TestClampQuality(t *testing.T) {
	assert.Equal(t, 1, ClampQuality(-3))
	assert.Equal(t, 10, ClampQuality(11))
	assert.Equal(t, 6, ClampQuality(6))
}
