package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/genome"
	"github.com/matzehuels/genomering/pkg/geometry"
	"github.com/matzehuels/genomering/pkg/labels"
)

type fixedMeasurer struct{}

func (fixedMeasurer) Measure(text string, size float64) labels.Metrics {
	return labels.Metrics{
		Width:   0.6 * size * float64(len([]rune(text))),
		Ascent:  0.8 * size,
		Descent: 0.2 * size,
	}
}

func build(t *testing.T, m *genome.Map) *DisplayList {
	t.Helper()
	d, err := Build(m, Options{Measurer: fixedMeasurer{}})
	require.NoError(t, err)
	return d
}

func subpaths(p geometry.PolarPath) int {
	n := 0
	for _, op := range p {
		if op.Kind == geometry.MoveTo {
			n++
		}
	}
	return n
}

func rangesOf(d *DisplayList) []Primitive {
	var out []Primitive
	for _, p := range d.Items {
		if p.Source.Kind == SourceRange {
			out = append(out, p)
		}
	}
	return out
}

func TestWrappingRangeIsOneArc(t *testing.T) {
	m, err := genome.New(1000)
	require.NoError(t, err)
	slot, err := m.AddSlot(genome.Direct)
	require.NoError(t, err)
	f, err := m.AddFeature(slot, "ori", genome.RGB(200, 0, 0))
	require.NoError(t, err)
	id, err := m.AddRange(f, 999, 1001)
	require.NoError(t, err)

	d := build(t, m)
	shapes := rangesOf(d)
	require.Len(t, shapes, 1)
	assert.Equal(t, int(id), shapes[0].Source.ID)
	assert.Equal(t, 1, subpaths(shapes[0].Shape))

	start := shapes[0].Shape[0].Theta
	end := shapes[0].Shape[1].Theta
	assert.InDelta(t, geometry.FullCircle*998/1000, start, 1e-9)
	assert.InDelta(t, geometry.FullCircle*1001/1000, end, 1e-9)
}

func TestEmptyMapWithTitleAndLegend(t *testing.T) {
	m, err := genome.New(5000, genome.WithTitle("empty plasmid"))
	require.NoError(t, err)
	lg, err := m.AddLegend(genome.UpperRight, genome.LegendBackground(genome.Gray))
	require.NoError(t, err)
	require.NoError(t, m.AddLegendItem(lg, genome.LegendItem{Text: "nothing here", Swatch: genome.Black}))

	d := build(t, m)
	assert.Zero(t, d.Count(SourceRange))
	assert.Zero(t, d.Count(SourceLabel))
	assert.Equal(t, 2, d.Count(SourceTitle), "title and length caption")
	assert.Equal(t, 3, d.Count(SourceLegend), "background, swatch and text")
	assert.Equal(t, 1, d.Count(SourceBackbone))
	assert.Empty(t, d.Placement.Labels)

	var caption string
	for _, p := range d.Items {
		if p.Source.Kind == SourceTitle {
			caption = p.Text.Content
		}
	}
	assert.Equal(t, "5,000 bp", caption)
}

func TestLegendAnchoredInsideCanvas(t *testing.T) {
	for _, pos := range []genome.LegendPosition{
		genome.UpperLeft, genome.UpperCenter, genome.UpperRight,
		genome.MiddleLeft, genome.MiddleCenter, genome.MiddleRight,
		genome.LowerLeft, genome.LowerCenter, genome.LowerRight,
		genome.MiddleLeftOfCenter, genome.MiddleRightOfCenter,
	} {
		t.Run(pos.String(), func(t *testing.T) {
			m, err := genome.New(100)
			require.NoError(t, err)
			lg, err := m.AddLegend(pos, genome.LegendBackground(genome.White))
			require.NoError(t, err)
			require.NoError(t, m.AddLegendItem(lg, genome.LegendItem{Text: "gene"}))

			d := build(t, m)
			canvas := geometry.RectAt(0, 0, float64(d.Width), float64(d.Height))
			for _, p := range d.Items {
				if p.Source.Kind == SourceLegend && p.Kind == KindRect {
					assert.True(t, geometry.Contains(canvas, p.Rect))
				}
			}
		})
	}
}

func TestRangeOrderDirectBeforeReverse(t *testing.T) {
	m, err := genome.New(1000)
	require.NoError(t, err)
	rev, err := m.AddSlot(genome.Reverse)
	require.NoError(t, err)
	dir, err := m.AddSlot(genome.Direct)
	require.NoError(t, err)
	fr, err := m.AddFeature(rev, "r", genome.Black)
	require.NoError(t, err)
	fd, err := m.AddFeature(dir, "d", genome.Black)
	require.NoError(t, err)
	r1, err := m.AddRange(fr, 10, 20)
	require.NoError(t, err)
	r2, err := m.AddRange(fd, 30, 40)
	require.NoError(t, err)
	r3, err := m.AddRange(fd, 50, 60)
	require.NoError(t, err)

	shapes := rangesOf(build(t, m))
	require.Len(t, shapes, 3)
	assert.Equal(t, []int{int(r2), int(r3), int(r1)},
		[]int{shapes[0].Source.ID, shapes[1].Source.ID, shapes[2].Source.ID})
}

func TestHiddenRangeNotDrawnOrLabelled(t *testing.T) {
	m, err := genome.New(1000)
	require.NoError(t, err)
	slot, err := m.AddSlot(genome.Direct)
	require.NoError(t, err)
	f, err := m.AddFeature(slot, "gene", genome.Black)
	require.NoError(t, err)
	_, err = m.AddRange(f, 10, 20, genome.Decorated(genome.Hidden))
	require.NoError(t, err)

	d := build(t, m)
	assert.Zero(t, d.Count(SourceRange))
	assert.Zero(t, d.Count(SourceLabel))
}

func TestArrowsAndMinimumLength(t *testing.T) {
	m, err := genome.New(1_000_000)
	require.NoError(t, err)
	slot, err := m.AddSlot(genome.Direct)
	require.NoError(t, err)
	f, err := m.AddFeature(slot, "tiny", genome.Black, genome.WithoutLabels())
	require.NoError(t, err)
	_, err = m.AddRange(f, 500, 500)
	require.NoError(t, err)
	_, err = m.AddRange(f, 1000, 200_000, genome.Decorated(genome.ClockwiseArrow))
	require.NoError(t, err)

	l, err := NewLayout(m, fixedMeasurer{})
	require.NoError(t, err)
	d, err := l.Build(nil)
	require.NoError(t, err)
	shapes := rangesOf(d)
	require.Len(t, shapes, 2)

	band := l.Rings().Bands[slot]
	sweep := shapes[0].Shape[1].Theta - shapes[0].Shape[0].Theta
	assert.InDelta(t, m.Settings().MinimumFeatureLength/band.Mid(), sweep, 1e-12)

	arrow := shapes[1].Shape
	var tip bool
	for _, op := range arrow {
		if op.Kind == geometry.LineTo && op.R == band.Mid() {
			tip = true
		}
	}
	assert.True(t, tip, "clockwise arrow has its tip on the band midline")
}

func TestZoomClipsRangesAndLabels(t *testing.T) {
	m, err := genome.New(10_000)
	require.NoError(t, err)
	slot, err := m.AddSlot(genome.Direct)
	require.NoError(t, err)
	f, err := m.AddFeature(slot, "far", genome.Black)
	require.NoError(t, err)
	far, err := m.AddRange(f, 5000, 5100)
	require.NoError(t, err)
	near, err := m.AddRange(f, 20, 40)
	require.NoError(t, err)
	require.NoError(t, m.SetZoom(10, 1))

	d := build(t, m)
	shapes := rangesOf(d)
	require.Len(t, shapes, 1)
	assert.Equal(t, int(near), shapes[0].Source.ID)

	require.Len(t, d.Placement.Suppressed, 1)
	assert.Equal(t, int(far), d.Placement.Suppressed[0].ID)
	assert.Equal(t, labels.ReasonOutOfWindow, d.Placement.Suppressed[0].Reason)
}

func TestZoomedRangeEnteringFromBothSides(t *testing.T) {
	m, err := genome.New(1000)
	require.NoError(t, err)
	slot, err := m.AddSlot(genome.Direct)
	require.NoError(t, err)
	f, err := m.AddFeature(slot, "wide", genome.Black, genome.WithoutLabels())
	require.NoError(t, err)
	_, err = m.AddRange(f, 700, 1599)
	require.NoError(t, err)
	require.NoError(t, m.SetZoom(2, 500))

	shapes := rangesOf(build(t, m))
	require.Len(t, shapes, 1)
	assert.Equal(t, 2, subpaths(shapes[0].Shape))
}

func TestInteractiveItemsCarryRangeSources(t *testing.T) {
	m, err := genome.New(3000)
	require.NoError(t, err)
	slot, err := m.AddSlot(genome.Direct)
	require.NoError(t, err)
	f, err := m.AddFeature(slot, "gene", genome.Black, genome.WithoutLabels())
	require.NoError(t, err)
	linked, err := m.AddRange(f, 10, 200, genome.Hyperlink("https://example.org/a"))
	require.NoError(t, err)
	_, err = m.AddRange(f, 400, 600)
	require.NoError(t, err)

	d := build(t, m)
	inter := d.Interactive()
	require.Len(t, inter, 1)
	assert.Equal(t, Source{Kind: SourceRange, ID: int(linked)}, inter[0].Source)
	assert.Equal(t, "https://example.org/a", inter[0].Link.Hyperlink)
}

func TestLabelLinesDrawnBeforeText(t *testing.T) {
	m, err := genome.New(3000)
	require.NoError(t, err)
	slot, err := m.AddSlot(genome.Direct)
	require.NoError(t, err)
	f, err := m.AddFeature(slot, "gene", genome.Black)
	require.NoError(t, err)
	for i := range 5 {
		_, err = m.AddRange(f, 1+i*500, 50+i*500)
		require.NoError(t, err)
	}

	d := build(t, m)
	require.Equal(t, 5, d.Count(SourceLabel))
	lastLine, firstText := -1, len(d.Items)
	for i, p := range d.Items {
		switch p.Source.Kind {
		case SourceLabelLine:
			lastLine = max(lastLine, i)
		case SourceLabel:
			firstText = min(firstText, i)
		}
	}
	assert.Less(t, lastLine, firstText)
}

func TestBuildRejectsForeignPlacement(t *testing.T) {
	m, err := genome.New(1000)
	require.NoError(t, err)
	l, err := NewLayout(m, fixedMeasurer{})
	require.NoError(t, err)

	_, err = l.Build(&labels.Placement{Fingerprint: "stale"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	p := l.Place()
	d, err := l.Build(p)
	require.NoError(t, err)
	assert.Same(t, p, d.Placement)
}

func TestWarningWhenLabelsExhausted(t *testing.T) {
	m, err := genome.New(1000, func(s *genome.Settings) { s.ShowWarning = true })
	require.NoError(t, err)
	l, err := NewLayout(m, fixedMeasurer{})
	require.NoError(t, err)

	p := l.Place()
	p.Suppressed = append(p.Suppressed, labels.Suppressed{ID: 9, Text: "x", Reason: labels.ReasonExhausted})
	d, err := l.Build(p)
	require.NoError(t, err)
	require.Equal(t, 1, d.Count(SourceWarning))
	assert.Equal(t, "1 labels could not be placed", d.Items[len(d.Items)-1].Text.Content)
}

func TestRulerTicks(t *testing.T) {
	m, err := genome.New(12078)
	require.NoError(t, err)
	d := build(t, m)
	assert.Positive(t, d.Count(SourceRuler))

	var texts []string
	for _, p := range d.Items {
		if p.Source.Kind == SourceRuler && p.Kind == KindText {
			texts = append(texts, p.Text.Content)
		}
	}
	require.NotEmpty(t, texts)
	assert.Equal(t, "1,000", texts[0])
	positions := d.RulerPositions()
	require.Len(t, positions, len(texts))
	assert.Equal(t, 1000, positions[0])

	require.NoError(t, m.Update(func(s *genome.Settings) { s.DrawTicks = false }))
	assert.Zero(t, build(t, m).Count(SourceRuler))
}

func TestRulerTicksOnLongZoomedSequence(t *testing.T) {
	m, err := genome.New(2_000_000_000)
	require.NoError(t, err)
	require.NoError(t, m.SetZoom(1e8, 1000))

	d := build(t, m)
	n := d.Count(SourceRuler)
	assert.Positive(t, n)
	// Two ticks and at most one label for each of the 21 visible bases.
	assert.LessOrEqual(t, n, 3*21)
}

func TestRangeProportionNarrowsSector(t *testing.T) {
	m, err := genome.New(1000)
	require.NoError(t, err)
	slot, err := m.AddSlot(genome.Direct)
	require.NoError(t, err)
	f, err := m.AddFeature(slot, "gene", genome.RGB(0, 0, 200))
	require.NoError(t, err)
	_, err = m.AddRange(f, 100, 200, genome.Proportion(0.5), genome.RadiusAdjustment(1))
	require.NoError(t, err)

	l, err := NewLayout(m, fixedMeasurer{})
	require.NoError(t, err)
	d, err := l.Build(nil)
	require.NoError(t, err)
	band := l.Rings().Bands[0]

	shapes := rangesOf(d)
	require.Len(t, shapes, 1)
	for _, op := range shapes[0].Shape {
		if op.Kind == geometry.Close {
			continue
		}
		assert.GreaterOrEqual(t, op.R, band.Mid()-1e-9)
		assert.LessOrEqual(t, op.R, band.Outer+1e-9)
	}
}

func TestTickStep(t *testing.T) {
	tests := []struct {
		window float64
		want   int
	}{
		{10, 1},
		{100, 5},
		{12078, 1000},
		{5000, 500},
		{50_000, 5000},
		{3_000_000, 200_000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tickStep(tt.window), "window %v", tt.window)
	}
}
