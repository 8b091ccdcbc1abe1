package genome

import (
	"github.com/matzehuels/genomering/pkg/errors"
)

// enumText maps enum values to the names used in configuration files.
type enumText[T ~int] struct {
	kind  string
	names []string
}

func (e enumText[T]) name(v T) string {
	if int(v) >= 0 && int(v) < len(e.names) {
		return e.names[v]
	}
	return "unknown"
}

func (e enumText[T]) parse(b []byte) (T, error) {
	for i, n := range e.names {
		if n == string(b) {
			return T(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown %s %q", e.kind, b)
}

// Strand is the strand a slot belongs to. Direct slots stack outward from the
// backbone, reverse slots inward.
type Strand int

const (
	Direct Strand = iota
	Reverse
)

var strandText = enumText[Strand]{"strand", []string{"direct", "reverse"}}

func (s Strand) String() string { return strandText.name(s) }

// MarshalText implements encoding.TextMarshaler.
func (s Strand) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strand) UnmarshalText(b []byte) error {
	v, err := strandText.parse(b)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Decoration is how a range is drawn.
type Decoration int

const (
	// Arc draws a plain arc segment.
	Arc Decoration = iota
	// ClockwiseArrow draws an arc with an arrowhead at its clockwise end.
	ClockwiseArrow
	// CounterclockwiseArrow draws an arc with an arrowhead at its
	// counter-clockwise end.
	CounterclockwiseArrow
	// Hidden reserves the range but draws nothing. Hidden ranges get no label
	// and no image-map region.
	Hidden
)

var decorationText = enumText[Decoration]{"decoration", []string{"arc", "clockwise-arrow", "counterclockwise-arrow", "hidden"}}

func (d Decoration) String() string { return decorationText.name(d) }

// MarshalText implements encoding.TextMarshaler.
func (d Decoration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decoration) UnmarshalText(b []byte) error {
	v, err := decorationText.parse(b)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// LegendPosition anchors a legend on the canvas.
type LegendPosition int

const (
	UpperLeft LegendPosition = iota
	UpperCenter
	UpperRight
	MiddleLeft
	MiddleLeftOfCenter
	MiddleCenter
	MiddleRightOfCenter
	MiddleRight
	LowerLeft
	LowerCenter
	LowerRight
)

var legendPositionText = enumText[LegendPosition]{"legend position", []string{
	"upper-left", "upper-center", "upper-right",
	"middle-left", "middle-left-of-center", "middle-center", "middle-right-of-center", "middle-right",
	"lower-left", "lower-center", "lower-right",
}}

func (p LegendPosition) String() string { return legendPositionText.name(p) }

// MarshalText implements encoding.TextMarshaler.
func (p LegendPosition) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *LegendPosition) UnmarshalText(b []byte) error {
	v, err := legendPositionText.parse(b)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Alignment positions a legend item's text within the legend box.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

var alignmentText = enumText[Alignment]{"alignment", []string{"left", "center", "right"}}

func (a Alignment) String() string { return alignmentText.name(a) }

// MarshalText implements encoding.TextMarshaler.
func (a Alignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Alignment) UnmarshalText(b []byte) error {
	v, err := alignmentText.parse(b)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
