package scene

import (
	"image/color"
	"math"

	"github.com/jbeda/geom"

	"github.com/matzehuels/genomering/pkg/genome"
	"github.com/matzehuels/genomering/pkg/geometry"
	"github.com/matzehuels/genomering/pkg/labels"
)

// Layout is everything about a map's drawing that does not depend on label
// placement. It is computed once per render and then either placed or built
// with an existing placement.
type Layout struct {
	m        *genome.Map
	settings genome.Settings
	measurer labels.Measurer

	coords geometry.CoordinateSystem
	rings  geometry.Rings
	slots  []genome.Slot
	center geom.Coord

	rulerItems  []Primitive
	titleItems  []Primitive
	legendItems []Primitive

	requests []labels.Request
	params   labels.Params
}

// NewLayout computes coordinates, ring bands, ruler, title and legend layout
// and the label requests for m. It reads m without modifying it.
func NewLayout(m *genome.Map, measurer labels.Measurer) (*Layout, error) {
	s := m.Settings()
	coords, err := geometry.NewCoordinateSystem(m.Length(), s.Zoom, s.ZoomCenter)
	if err != nil {
		return nil, err
	}

	slots := m.Slots()
	specs := make([]geometry.SlotSpec, len(slots))
	for i, sl := range slots {
		specs[i] = geometry.SlotSpec{Strand: geometry.Outward, Thickness: s.FeatureThickness}
		if sl.Strand == genome.Reverse {
			specs[i].Strand = geometry.Inward
		}
		if sl.Thickness > 0 {
			specs[i].Thickness = sl.Thickness
		}
	}
	rings, err := geometry.RingAllocator{
		BackboneRadius:    s.BackboneRadius,
		BackboneThickness: s.BackboneThickness,
		Spacing:           s.SlotSpacing,
	}.Allocate(specs)
	if err != nil {
		return nil, err
	}

	l := &Layout{
		m:        m,
		settings: s,
		measurer: measurer,
		coords:   coords,
		rings:    rings,
		slots:    slots,
		center:   geom.Coord{X: float64(s.Width) / 2, Y: float64(s.Height) / 2},
	}

	innerStart := l.layoutRuler()
	obstacles := l.layoutTitle()
	obstacles = append(obstacles, l.layoutLegends()...)

	outerStart := rings.Outermost() + s.SlotSpacing
	if s.DrawTicks {
		outerStart += s.TickLength
	}
	l.params = labels.Params{
		Quality:    s.LabelQuality,
		FontSize:   s.LabelFontSize,
		LineLength: s.LabelLineLength,
		OuterStart: outerStart,
		InnerStart: innerStart,
		Center:     l.center,
		Canvas:     geometry.RectAt(0, 0, float64(s.Width), float64(s.Height)),
		Obstacles:  obstacles,
		InnerMode:  s.InnerLabels,
	}
	l.requests = l.labelRequests()
	return l, nil
}

// Coords returns the coordinate system in use.
func (l *Layout) Coords() geometry.CoordinateSystem { return l.coords }

// Rings returns the allocated ring bands, indexed like the map's slots.
func (l *Layout) Rings() geometry.Rings { return l.rings }

// Requests returns the label requests.
func (l *Layout) Requests() []labels.Request { return l.requests }

// Params returns the label placement parameters.
func (l *Layout) Params() labels.Params { return l.params }

// Fingerprint identifies the label placement inputs of this layout.
func (l *Layout) Fingerprint() string {
	return labels.Fingerprint(l.requests, l.params)
}

// Place runs label placement for this layout.
func (l *Layout) Place() *labels.Placement {
	return labels.Place(l.requests, l.params, l.measurer)
}

// labelRequests builds one request per labelled, drawn range.
func (l *Layout) labelRequests() []labels.Request {
	var reqs []labels.Request
	features := l.m.Features()
	for id, r := range l.m.Ranges() {
		f := features[r.Feature]
		if !f.ShowLabel || r.Decoration == genome.Hidden {
			continue
		}
		text := r.Label
		if text == "" {
			text = f.Name
		}
		if text == "" {
			continue
		}

		req := labels.Request{
			ID:        id,
			Text:      text,
			Force:     r.ForceLabel,
			Hyperlink: r.Hyperlink,
			Mouseover: r.Mouseover,
			Color:     color.RGBA(r.Color.Or(f.Color)),
		}
		if l.slots[f.Slot].Strand == genome.Reverse {
			req.Side = labels.Inner
		}

		spans := l.coords.Spans(float64(r.Start), float64(r.Stop))
		if len(spans) == 0 {
			req.Clipped = true
			req.Angle, _ = l.coords.AngleOf(float64(r.Start))
		} else {
			// Anchor at the middle of the widest visible part.
			widest := spans[0]
			for _, sp := range spans[1:] {
				if sp.Width() > widest.Width() {
					widest = sp
				}
			}
			req.Angle = widest.Mid()
		}
		reqs = append(reqs, req)
	}
	return reqs
}

// textBox returns the box of text whose baseline starts at origin.
func textBox(origin geom.Coord, m labels.Metrics) geom.Rect {
	return geometry.RectAt(origin.X, origin.Y-m.Ascent, m.Width, m.Height())
}

// centeredText places text centred on c.
func centeredText(c geom.Coord, m labels.Metrics) geom.Coord {
	return geom.Coord{X: c.X - m.Width/2, Y: c.Y + (m.Ascent-m.Descent)/2}
}

// halfDiagonal is the radius of the circle around a centred text box.
func halfDiagonal(m labels.Metrics) float64 {
	return math.Hypot(m.Width, m.Height()) / 2
}
