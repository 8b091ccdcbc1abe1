package scene

import (
	"image/color"

	"github.com/jbeda/geom"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/fonts"
	"github.com/matzehuels/genomering/pkg/genome"
	"github.com/matzehuels/genomering/pkg/geometry"
	"github.com/matzehuels/genomering/pkg/labels"
)

var warningColor = color.RGBA{R: 0xcc, A: 0xff}

// Options configures Build.
type Options struct {
	// Measurer measures text. Defaults to the embedded font.
	Measurer labels.Measurer
	// Placement reuses an earlier placement instead of placing labels.
	// It must have been computed for the same map state.
	Placement *labels.Placement
}

// Build lays out m and returns its display list.
func Build(m *genome.Map, opts Options) (*DisplayList, error) {
	if opts.Measurer == nil {
		opts.Measurer = fonts.Default()
	}
	l, err := NewLayout(m, opts.Measurer)
	if err != nil {
		return nil, err
	}
	return l.Build(opts.Placement)
}

// Build assembles the display list. A nil placement runs label placement;
// a placement computed from different inputs is rejected.
func (l *Layout) Build(p *labels.Placement) (*DisplayList, error) {
	if p == nil {
		p = l.Place()
	} else if fp := l.Fingerprint(); p.Fingerprint != fp {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"placement %.12s does not match map state %.12s", p.Fingerprint, fp)
	}

	s := l.settings
	d := &DisplayList{
		Width:      s.Width,
		Height:     s.Height,
		Center:     l.center,
		Background: color.RGBA(s.Background),
		Placement:  p,
	}

	if s.Background.IsSet() {
		d.Items = append(d.Items, Primitive{
			Kind: KindRect,
			Rect: geometry.RectAt(0, 0, float64(s.Width), float64(s.Height)),
			Fill: color.RGBA(s.Background),
		})
	}
	if b := l.rings.Backbone; b.Thickness() > 0 {
		d.Items = append(d.Items, Primitive{
			Kind:   KindShape,
			Shape:  geometry.Sector(b.Inner, b.Outer, 0, geometry.FullCircle),
			Fill:   color.RGBA(s.BackboneColor),
			Source: Source{Kind: SourceBackbone},
		})
	}

	d.Items = append(d.Items, l.rangeItems()...)
	d.Items = append(d.Items, l.rulerItems...)
	d.Items = append(d.Items, l.titleItems...)
	d.Items = append(d.Items, l.legendItems...)
	d.Items = append(d.Items, l.labelItems(p)...)

	if n := p.Exhausted(); s.ShowWarning && n > 0 {
		text := printer.Sprintf("%d labels could not be placed", n)
		m := l.measurer.Measure(text, s.LabelFontSize)
		d.Items = append(d.Items, Primitive{
			Kind: KindText,
			Text: Text{
				Origin:  geom.Coord{X: legendMargin, Y: float64(s.Height) - legendMargin - m.Descent},
				Content: text,
				Size:    s.LabelFontSize,
			},
			Fill:   warningColor,
			Source: Source{Kind: SourceWarning},
		})
	}
	return d, nil
}

// rangeOrder lists range IDs in drawing order: direct slots before reverse
// ones, then slot, feature and range declaration order.
func (l *Layout) rangeOrder() []genome.RangeID {
	features := l.m.Features()
	var order []genome.RangeID
	for _, strand := range []genome.Strand{genome.Direct, genome.Reverse} {
		for sid, sl := range l.slots {
			if sl.Strand != strand {
				continue
			}
			for _, f := range features {
				if int(f.Slot) == sid {
					order = append(order, f.Ranges...)
				}
			}
		}
	}
	return order
}

// rangeItems returns one shape per visible range. A range split by the zoom
// window still yields a single primitive with one subpath per visible part.
func (l *Layout) rangeItems() []Primitive {
	s := l.settings
	features := l.m.Features()
	ranges := l.m.Ranges()

	var items []Primitive
	for _, id := range l.rangeOrder() {
		r := ranges[id]
		if r.Decoration == genome.Hidden {
			continue
		}
		spans := l.coords.Spans(float64(r.Start), float64(r.Stop))
		if len(spans) == 0 {
			continue
		}
		f := features[r.Feature]
		band := l.rings.Bands[f.Slot].Sub(r.Proportion, r.RadiusAdjustment)
		mid := band.Mid()
		minWidth := s.MinimumFeatureLength / mid
		head := s.ArrowheadLength / mid

		var shape geometry.PolarPath
		for i, sp := range spans {
			if w := sp.Width(); w < minWidth {
				c := sp.Mid()
				sp = geometry.Span{Start: c - minWidth/2, End: c + minWidth/2}
			}
			switch {
			case r.Decoration == genome.ClockwiseArrow && i == len(spans)-1 &&
				l.coords.Visible(float64(r.Stop+1)):
				shape = append(shape, geometry.Arrow(band.Inner, band.Outer, sp.Start, sp.End, head, true)...)
			case r.Decoration == genome.CounterclockwiseArrow && i == 0 &&
				l.coords.Visible(float64(r.Start)):
				shape = append(shape, geometry.Arrow(band.Inner, band.Outer, sp.Start, sp.End, head, false)...)
			default:
				shape = append(shape, geometry.Sector(band.Inner, band.Outer, sp.Start, sp.End)...)
			}
		}

		items = append(items, Primitive{
			Kind:   KindShape,
			Shape:  shape,
			Fill:   color.RGBA(r.Color.Or(f.Color)),
			Link:   Link{Hyperlink: r.Hyperlink, Mouseover: r.Mouseover},
			Source: Source{Kind: SourceRange, ID: int(id)},
		})
	}
	return items
}

// labelItems draws every leader line before any label text so text is never
// covered by a line.
func (l *Layout) labelItems(p *labels.Placement) []Primitive {
	items := make([]Primitive, 0, 2*len(p.Labels))
	for _, pl := range p.Labels {
		items = append(items, Primitive{
			Kind:        KindLine,
			Points:      pl.Line,
			Stroke:      pl.Color,
			StrokeWidth: l.settings.LabelLineThickness,
			Source:      Source{Kind: SourceLabelLine, ID: pl.ID},
		})
	}
	for _, pl := range p.Labels {
		items = append(items, Primitive{
			Kind:   KindText,
			Text:   Text{Origin: pl.Baseline, Content: pl.Text, Size: pl.FontSize},
			Fill:   pl.Color,
			Link:   Link{Hyperlink: pl.Hyperlink, Mouseover: pl.Mouseover},
			Source: Source{Kind: SourceLabel, ID: pl.ID},
		})
	}
	return items
}
