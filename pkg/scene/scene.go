// Package scene turns a genome map and a label placement into a display
// list: an ordered, backend-neutral sequence of drawing primitives.
//
// Every renderer consumes the same DisplayList. Shapes on the map are kept in
// polar form (geometry.PolarPath) so that vector output can emit exact arcs
// while raster output flattens them; everything else is in canvas pixels with
// y growing downward.
package scene

import (
	"image/color"

	"github.com/jbeda/geom"

	"github.com/matzehuels/genomering/pkg/geometry"
	"github.com/matzehuels/genomering/pkg/labels"
)

// Kind identifies the primitive variant.
type Kind uint8

const (
	// KindShape is a filled polar outline around DisplayList.Center.
	KindShape Kind = iota
	// KindLine is a stroked polyline.
	KindLine
	// KindRect is a filled axis-aligned rectangle.
	KindRect
	// KindText is a single line of text.
	KindText
)

// SourceKind identifies what a primitive was generated from.
type SourceKind uint8

const (
	SourceNone SourceKind = iota
	SourceBackbone
	SourceRange
	SourceRuler
	SourceTitle
	SourceLegend
	SourceLabel
	SourceLabelLine
	SourceWarning
)

// Source ties a primitive back to the map. ID is the RangeID for range and
// label sources, the LegendID for legends and the sequence position for
// ruler labels.
type Source struct {
	Kind SourceKind
	ID   int
}

// Link is the interactive metadata of a primitive.
type Link struct {
	Hyperlink string
	Mouseover string
}

// Empty reports whether the link carries nothing.
func (l Link) Empty() bool { return l.Hyperlink == "" && l.Mouseover == "" }

// Text is a run of text. Origin is the left end of the baseline.
type Text struct {
	Origin  geom.Coord
	Content string
	Size    float64
}

// Primitive is one drawing instruction. Only the fields of its Kind are set.
type Primitive struct {
	Kind Kind

	Shape  geometry.PolarPath
	Points []geom.Coord
	Rect   geom.Rect
	Text   Text

	// Fill colours shapes, rectangles and text.
	Fill color.RGBA
	// Stroke colours lines.
	Stroke      color.RGBA
	StrokeWidth float64

	Link   Link
	Source Source
}

// DisplayList is the ordered output of Build. Later items draw over earlier
// ones.
type DisplayList struct {
	Width      int
	Height     int
	Center     geom.Coord
	Background color.RGBA
	Items      []Primitive

	// Placement is the label placement the list was built with.
	Placement *labels.Placement
}

// Interactive returns the primitives that carry a link.
func (d *DisplayList) Interactive() []Primitive {
	var out []Primitive
	for _, p := range d.Items {
		if !p.Link.Empty() {
			out = append(out, p)
		}
	}
	return out
}

// RulerPositions returns the sequence positions of the labelled ruler
// ticks in drawing order.
func (d *DisplayList) RulerPositions() []int {
	var out []int
	for _, p := range d.Items {
		if p.Source.Kind == SourceRuler && p.Kind == KindText {
			out = append(out, p.Source.ID)
		}
	}
	return out
}

// Count returns how many primitives come from the given source kind.
func (d *DisplayList) Count(kind SourceKind) int {
	n := 0
	for _, p := range d.Items {
		if p.Source.Kind == kind {
			n++
		}
	}
	return n
}
