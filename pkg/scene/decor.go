package scene

import (
	"image/color"
	"math"

	"github.com/jbeda/geom"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/genomering/pkg/genome"
	"github.com/matzehuels/genomering/pkg/geometry"
)

const (
	// targetTicks is roughly how many labelled ticks the ruler shows around
	// the visible window.
	targetTicks = 20
	// titleGap separates the title from the length caption.
	titleGap = 4.0

	legendPadding = 5.0
	legendMargin  = 5.0
	swatchGap     = 4.0
	legendSpacing = 2.0
)

// printer formats ruler and caption numbers with digit grouping.
var printer = message.NewPrinter(language.English)

// tickStep returns a 1-2-5 step so the window shows about targetTicks
// labelled ticks.
func tickStep(window float64) int {
	raw := window / targetTicks
	if raw <= 1 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*mag >= raw {
			return int(m * mag)
		}
	}
	return int(10 * mag)
}

// layoutRuler lays out tick marks on the outer edge of the outermost ring
// and labelled tick marks on the inner edge of the innermost ring. It
// returns the radius inner labels must stay within.
func (l *Layout) layoutRuler() float64 {
	s := l.settings
	inner := l.rings.Innermost()
	if !s.DrawTicks {
		return inner - s.SlotSpacing
	}
	outer := l.rings.Outermost()
	innerStart := inner - s.TickLength

	step := tickStep(l.coords.Window())
	minor := 0
	if step%2 == 0 {
		minor = step / 2
	}
	inc := step
	if minor > 0 {
		inc = minor
	}

	tick := func(from, to geom.Coord) {
		l.rulerItems = append(l.rulerItems, Primitive{
			Kind:        KindLine,
			Points:      []geom.Coord{from, to},
			Stroke:      color.RGBA(s.TickColor),
			StrokeWidth: s.TickThickness,
			Source:      Source{Kind: SourceRuler},
		})
	}

	var placed []geom.Rect
	for _, v := range l.coords.Multiples(inc) {
		angle, _ := l.coords.AngleOf(float64(v))
		long := v%step == 0
		length := s.TickLength
		if !long {
			length /= 2
		}
		tick(geometry.Point(l.center, outer, angle), geometry.Point(l.center, outer+length, angle))
		tick(geometry.Point(l.center, inner, angle), geometry.Point(l.center, inner-length, angle))
		if !long {
			continue
		}

		text := printer.Sprintf("%d", v)
		m := l.measurer.Measure(text, s.RulerFontSize)
		half := halfDiagonal(m)
		r := inner - s.TickLength - s.RulerTextPadding/2 - half
		if r-half <= 0 {
			continue
		}
		origin := centeredText(geometry.Point(l.center, r, angle), m)
		box := textBox(origin, m)
		if overlapsAny(box, placed) {
			continue
		}
		placed = append(placed, box)
		innerStart = min(innerStart, r-half)
		l.rulerItems = append(l.rulerItems, Primitive{
			Kind:   KindText,
			Text:   Text{Origin: origin, Content: text, Size: s.RulerFontSize},
			Fill:   color.RGBA(s.TickColor),
			Source: Source{Kind: SourceRuler, ID: v},
		})
	}
	return innerStart - s.SlotSpacing
}

func overlapsAny(r geom.Rect, others []geom.Rect) bool {
	for _, o := range others {
		if geometry.Intersects(r, o) {
			return true
		}
	}
	return false
}

// layoutTitle centres the title and the length caption on the map and
// returns their boxes.
func (l *Layout) layoutTitle() []geom.Rect {
	s := l.settings
	type line struct {
		text string
		size float64
	}
	var lines []line
	if s.Title != "" {
		lines = append(lines, line{s.Title, s.TitleFontSize})
	}
	if s.ShowLength {
		lines = append(lines, line{printer.Sprintf("%d bp", l.m.Length()), s.LabelFontSize})
	}
	if len(lines) == 0 {
		return nil
	}

	total := titleGap * float64(len(lines)-1)
	metrics := make([]struct{ w, a, h float64 }, len(lines))
	for i, ln := range lines {
		m := l.measurer.Measure(ln.text, ln.size)
		metrics[i] = struct{ w, a, h float64 }{m.Width, m.Ascent, m.Height()}
		total += m.Height()
	}

	var boxes []geom.Rect
	y := l.center.Y - total/2
	for i, ln := range lines {
		m := metrics[i]
		origin := geom.Coord{X: l.center.X - m.w/2, Y: y + m.a}
		l.titleItems = append(l.titleItems, Primitive{
			Kind:   KindText,
			Text:   Text{Origin: origin, Content: ln.text, Size: ln.size},
			Fill:   color.RGBA(s.TitleColor),
			Source: Source{Kind: SourceTitle},
		})
		boxes = append(boxes, geometry.RectAt(origin.X, y, m.w, m.h))
		y += m.h + titleGap
	}
	return boxes
}

// layoutLegends sizes and anchors every non-empty legend and returns their
// boxes.
func (l *Layout) layoutLegends() []geom.Rect {
	var boxes []geom.Rect
	for id, lg := range l.m.Legends() {
		if len(lg.Items) == 0 {
			continue
		}

		widths := make([]float64, len(lg.Items))
		heights := make([]float64, len(lg.Items))
		ascents := make([]float64, len(lg.Items))
		var w, h float64
		for i, it := range lg.Items {
			m := l.measurer.Measure(it.Text, lg.FontSize)
			widths[i] = m.Width
			if it.Swatch.IsSet() {
				widths[i] += m.Ascent + swatchGap
			}
			heights[i] = m.Height()
			ascents[i] = m.Ascent
			w = max(w, widths[i])
			h += heights[i]
		}
		w += 2 * legendPadding
		h += 2*legendPadding + legendSpacing*float64(len(lg.Items)-1)

		box := l.anchorLegend(lg.Position, w, h)
		boxes = append(boxes, box)
		src := Source{Kind: SourceLegend, ID: id}

		if lg.Background.IsSet() {
			l.legendItems = append(l.legendItems, Primitive{
				Kind:   KindRect,
				Rect:   box,
				Fill:   color.RGBA(lg.Background),
				Source: src,
			})
		}

		y := box.Min.Y + legendPadding
		for i, it := range lg.Items {
			x := box.Min.X + legendPadding
			switch it.Align {
			case genome.AlignCenter:
				x = box.Min.X + (w-widths[i])/2
			case genome.AlignRight:
				x = box.Max.X - legendPadding - widths[i]
			}
			if it.Swatch.IsSet() {
				side := ascents[i]
				l.legendItems = append(l.legendItems, Primitive{
					Kind:   KindRect,
					Rect:   geometry.RectAt(x, y, side, side),
					Fill:   color.RGBA(it.Swatch),
					Source: src,
				})
				x += side + swatchGap
			}
			l.legendItems = append(l.legendItems, Primitive{
				Kind:   KindText,
				Text:   Text{Origin: geom.Coord{X: x, Y: y + ascents[i]}, Content: it.Text, Size: lg.FontSize},
				Fill:   color.RGBA(it.Color.Or(genome.Black)),
				Source: src,
			})
			y += heights[i] + legendSpacing
		}
	}
	return boxes
}

// anchorLegend positions a w-by-h box at one of the legend anchors.
// The "of center" anchors sit inside the ring, beside the centre.
func (l *Layout) anchorLegend(pos genome.LegendPosition, w, h float64) geom.Rect {
	W, H := float64(l.settings.Width), float64(l.settings.Height)

	var x float64
	switch pos {
	case genome.UpperLeft, genome.MiddleLeft, genome.LowerLeft:
		x = legendMargin
	case genome.UpperCenter, genome.MiddleCenter, genome.LowerCenter:
		x = (W - w) / 2
	case genome.UpperRight, genome.MiddleRight, genome.LowerRight:
		x = W - w - legendMargin
	case genome.MiddleLeftOfCenter:
		x = l.center.X - w - legendMargin
	case genome.MiddleRightOfCenter:
		x = l.center.X + legendMargin
	}

	var y float64
	switch pos {
	case genome.UpperLeft, genome.UpperCenter, genome.UpperRight:
		y = legendMargin
	case genome.LowerLeft, genome.LowerCenter, genome.LowerRight:
		y = H - h - legendMargin
	default:
		y = (H - h) / 2
	}
	return geometry.RectAt(x, y, w, h)
}
