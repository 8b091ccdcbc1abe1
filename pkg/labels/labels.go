// Package labels places feature labels around a circular map.
//
// Each label is anchored at an angle on the feature ring and connected to its
// text by a leader line. Place searches a ranked list of candidate positions
// per label (angular shifts and radial extensions, bounded by a quality
// level) and accepts the first one that stays on the canvas, clears the
// feature rings and obstacles, and overlaps no label placed before it.
// Labels that exhaust their candidates are suppressed and counted.
//
// Placement is a pure function of its inputs: the same requests, parameters
// and text metrics always produce the same Placement.
package labels

import (
	"cmp"
	"encoding"
	"image/color"
	"slices"

	"github.com/jbeda/geom"

	"github.com/matzehuels/genomering/pkg/errors"
)

// Side is the side of the feature rings a label is drawn on.
type Side uint8

const (
	// Outer labels sit outside the outermost slot.
	Outer Side = iota
	// Inner labels sit inside the innermost slot.
	Inner
)

// String returns "outer" or "inner".
func (s Side) String() string {
	if s == Inner {
		return "inner"
	}
	return "outer"
}

// InnerMode controls what happens to labels of inward (reverse) slots.
type InnerMode uint8

const (
	// InnerAuto places inner labels inside the rings and moves a label to
	// the outer side when no inner position is free.
	InnerAuto InnerMode = iota
	// InnerShown places inner labels inside the rings only.
	InnerShown
	// InnerHidden drops inner labels.
	InnerHidden
	// InnerRelocate places every inner label on the outer side.
	InnerRelocate
)

var innerModeNames = []string{"auto", "shown", "hidden", "relocate"}

// String returns the mode name used in configuration files.
func (m InnerMode) String() string {
	if int(m) < len(innerModeNames) {
		return innerModeNames[m]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m InnerMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *InnerMode) UnmarshalText(b []byte) error {
	for i, n := range innerModeNames {
		if n == string(b) {
			*m = InnerMode(i)
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidConfig, "unknown inner label mode %q (want auto, shown, hidden or relocate)", b)
}

var (
	_ encoding.TextMarshaler   = InnerMode(0)
	_ encoding.TextUnmarshaler = (*InnerMode)(nil)
)

// Reason explains why a label was not placed.
type Reason uint8

const (
	// ReasonExhausted means every candidate position collided.
	ReasonExhausted Reason = iota
	// ReasonOutOfWindow means the anchor lies outside the zoom window.
	ReasonOutOfWindow
	// ReasonHidden means the label's side is hidden by InnerHidden.
	ReasonHidden
)

// String returns a short description of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonExhausted:
		return "exhausted"
	case ReasonOutOfWindow:
		return "out of window"
	case ReasonHidden:
		return "hidden"
	}
	return "unknown"
}

// Metrics describes the extent of a line of text.
type Metrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// Height returns Ascent+Descent.
func (m Metrics) Height() float64 { return m.Ascent + m.Descent }

// Measurer measures text. Implementations must be deterministic.
type Measurer interface {
	Measure(text string, size float64) Metrics
}

// Request asks for one label.
type Request struct {
	ID        int        `json:"id"`
	Text      string     `json:"text"`
	Angle     float64    `json:"angle"`
	Side      Side       `json:"side"`
	Force     bool       `json:"force,omitempty"`
	Clipped   bool       `json:"clipped,omitempty"`
	Hyperlink string     `json:"hyperlink,omitempty"`
	Mouseover string     `json:"mouseover,omitempty"`
	Color     color.RGBA `json:"color"`
}

// Params configures a placement run.
type Params struct {
	// Quality in [1, 10] bounds the candidate search. Out-of-range values
	// are clamped.
	Quality int `json:"quality"`
	// FontSize is the label font size in pixels.
	FontSize float64 `json:"font_size"`
	// LineLength is the radial length of a leader line before extension.
	LineLength float64 `json:"line_length"`
	// OuterStart is the radius outer leader lines start at. Outer label
	// boxes must lie completely outside it.
	OuterStart float64 `json:"outer_start"`
	// InnerStart is the radius inner leader lines start at. Inner label
	// boxes must lie completely inside it.
	InnerStart float64 `json:"inner_start"`
	// Center is the centre of the map on the canvas.
	Center geom.Coord `json:"center"`
	// Canvas bounds every label box.
	Canvas geom.Rect `json:"canvas"`
	// Obstacles are regions no label box or leader line may cross
	// (title, legends, ruler text).
	Obstacles []geom.Rect `json:"obstacles,omitempty"`
	// InnerMode controls labels requested on the inner side.
	InnerMode InnerMode `json:"inner_mode"`
}

// Placed is a label that was given a position.
type Placed struct {
	ID        int          `json:"id" msgpack:"id"`
	Text      string       `json:"text" msgpack:"text"`
	Side      Side         `json:"side" msgpack:"side"`
	Box       geom.Rect    `json:"box" msgpack:"box"`
	Baseline  geom.Coord   `json:"baseline" msgpack:"baseline"`
	Line      []geom.Coord `json:"line" msgpack:"line"`
	Forced    bool         `json:"forced,omitempty" msgpack:"forced"`
	Hyperlink string       `json:"hyperlink,omitempty" msgpack:"hyperlink"`
	Mouseover string       `json:"mouseover,omitempty" msgpack:"mouseover"`
	Color     color.RGBA   `json:"color" msgpack:"color"`
	FontSize  float64      `json:"font_size" msgpack:"font_size"`
}

// Suppressed is a label that was not drawn.
type Suppressed struct {
	ID     int    `json:"id" msgpack:"id"`
	Text   string `json:"text" msgpack:"text"`
	Reason Reason `json:"reason" msgpack:"reason"`
}

// Placement is the result of Place. It is a value: nothing in this module
// modifies a Placement after Place returns it.
type Placement struct {
	// Fingerprint identifies the inputs the placement was computed from.
	Fingerprint string `json:"fingerprint" msgpack:"fingerprint"`
	// Quality is the quality level whose pass produced the result.
	Quality int `json:"quality" msgpack:"quality"`
	// Labels are ordered by request ID.
	Labels []Placed `json:"labels" msgpack:"labels"`
	// Suppressed are ordered by request ID.
	Suppressed []Suppressed `json:"suppressed,omitempty" msgpack:"suppressed"`
}

// Exhausted returns how many labels were dropped because no candidate fit.
func (p *Placement) Exhausted() int {
	n := 0
	for _, s := range p.Suppressed {
		if s.Reason == ReasonExhausted {
			n++
		}
	}
	return n
}

// Lookup returns the placed label with the given request ID.
func (p *Placement) Lookup(id int) (Placed, bool) {
	i, ok := slices.BinarySearchFunc(p.Labels, id, func(l Placed, id int) int {
		return cmp.Compare(l.ID, id)
	})
	if ok {
		return p.Labels[i], true
	}
	return Placed{}, false
}
