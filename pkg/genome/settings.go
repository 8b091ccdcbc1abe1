package genome

import (
	"math"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/labels"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	DefaultSize                 = 700
	DefaultBackboneRadius       = 190.0
	DefaultBackboneThickness    = 5.0
	DefaultFeatureThickness     = 8.0
	DefaultSlotSpacing          = 4.0
	DefaultArrowheadLength      = 5.0
	DefaultMinimumFeatureLength = 1.0
	DefaultLabelLineLength      = 50.0
	DefaultLabelLineThickness   = 1.0
	DefaultTickLength           = 7.0
	DefaultTickThickness        = 2.0
	DefaultRulerTextPadding     = 10.0
	DefaultLabelFontSize        = 10.0
	DefaultTitleFontSize        = 12.0
	DefaultRulerFontSize        = 8.0
	DefaultLegendFontSize       = 10.0

	// MaxCanvasSize bounds width and height to keep raster buffers sane.
	MaxCanvasSize = 20000
	// MinBackboneRadius is the smallest backbone radius drawn.
	MinBackboneRadius = 10.0
	// maxBackboneFraction of the half-canvas the backbone radius may use.
	maxBackboneFraction = 0.8
)

// =============================================================================
// Settings
// =============================================================================

// Settings are the map-wide drawing parameters. All lengths are pixels.
type Settings struct {
	Width  int `toml:"width" yaml:"width" json:"width"`
	Height int `toml:"height" yaml:"height" json:"height"`

	Background        Color   `toml:"background" yaml:"background" json:"background"`
	// BackboneRadius must be finite and positive. Normalize raises it to
	// MinBackboneRadius and lowers it to 0.8 of the half canvas, so the value
	// read back from Map.Settings may differ from the one set.
	BackboneRadius    float64 `toml:"backbone_radius" yaml:"backbone_radius" json:"backbone_radius"`
	BackboneThickness float64 `toml:"backbone_thickness" yaml:"backbone_thickness" json:"backbone_thickness"`
	BackboneColor     Color   `toml:"backbone_color" yaml:"backbone_color" json:"backbone_color"`

	Title         string  `toml:"title" yaml:"title" json:"title"`
	TitleFontSize float64 `toml:"title_font_size" yaml:"title_font_size" json:"title_font_size"`
	TitleColor    Color   `toml:"title_color" yaml:"title_color" json:"title_color"`
	ShowLength    bool    `toml:"show_length" yaml:"show_length" json:"show_length"`

	FeatureThickness     float64 `toml:"feature_thickness" yaml:"feature_thickness" json:"feature_thickness"`
	SlotSpacing          float64 `toml:"slot_spacing" yaml:"slot_spacing" json:"slot_spacing"`
	ArrowheadLength      float64 `toml:"arrowhead_length" yaml:"arrowhead_length" json:"arrowhead_length"`
	MinimumFeatureLength float64 `toml:"minimum_feature_length" yaml:"minimum_feature_length" json:"minimum_feature_length"`

	LabelFontSize      float64          `toml:"label_font_size" yaml:"label_font_size" json:"label_font_size"`
	LabelQuality       int              `toml:"label_quality" yaml:"label_quality" json:"label_quality"`
	LabelLineLength    float64          `toml:"label_line_length" yaml:"label_line_length" json:"label_line_length"`
	LabelLineThickness float64          `toml:"label_line_thickness" yaml:"label_line_thickness" json:"label_line_thickness"`
	InnerLabels        labels.InnerMode `toml:"inner_labels" yaml:"inner_labels" json:"inner_labels"`
	ShowWarning        bool             `toml:"show_warning" yaml:"show_warning" json:"show_warning"`

	DrawTicks        bool    `toml:"draw_ticks" yaml:"draw_ticks" json:"draw_ticks"`
	TickLength       float64 `toml:"tick_length" yaml:"tick_length" json:"tick_length"`
	TickThickness    float64 `toml:"tick_thickness" yaml:"tick_thickness" json:"tick_thickness"`
	TickColor        Color   `toml:"tick_color" yaml:"tick_color" json:"tick_color"`
	RulerFontSize    float64 `toml:"ruler_font_size" yaml:"ruler_font_size" json:"ruler_font_size"`
	RulerTextPadding float64 `toml:"ruler_text_padding" yaml:"ruler_text_padding" json:"ruler_text_padding"`

	Zoom       float64 `toml:"zoom" yaml:"zoom" json:"zoom"`
	ZoomCenter int     `toml:"zoom_center" yaml:"zoom_center" json:"zoom_center"`
}

// DefaultSettings returns the settings a new Map starts with.
func DefaultSettings() Settings {
	return Settings{
		Width:                DefaultSize,
		Height:               DefaultSize,
		Background:           White,
		BackboneRadius:       DefaultBackboneRadius,
		BackboneThickness:    DefaultBackboneThickness,
		BackboneColor:        Gray,
		TitleFontSize:        DefaultTitleFontSize,
		TitleColor:           Black,
		ShowLength:           true,
		FeatureThickness:     DefaultFeatureThickness,
		SlotSpacing:          DefaultSlotSpacing,
		ArrowheadLength:      DefaultArrowheadLength,
		MinimumFeatureLength: DefaultMinimumFeatureLength,
		LabelFontSize:        DefaultLabelFontSize,
		LabelQuality:         labels.DefaultQuality,
		LabelLineLength:      DefaultLabelLineLength,
		LabelLineThickness:   DefaultLabelLineThickness,
		InnerLabels:          labels.InnerAuto,
		DrawTicks:            true,
		TickLength:           DefaultTickLength,
		TickThickness:        DefaultTickThickness,
		TickColor:            Black,
		RulerFontSize:        DefaultRulerFontSize,
		RulerTextPadding:     DefaultRulerTextPadding,
		Zoom:                 1,
		ZoomCenter:           1,
	}
}

// Normalize clamps values that have a sensible nearest legal value: label
// quality to [1, 10] and the backbone radius to
// [MinBackboneRadius, 0.8*min(width, height)/2]. A backbone radius that is
// not finite and positive is left for Validate to reject.
func (s *Settings) Normalize() {
	s.LabelQuality = labels.ClampQuality(s.LabelQuality)
	if !finitePositive(s.BackboneRadius) {
		return
	}
	if s.Width > 0 && s.Height > 0 {
		limit := maxBackboneFraction * float64(min(s.Width, s.Height)) / 2
		s.BackboneRadius = math.Min(s.BackboneRadius, limit)
	}
	s.BackboneRadius = math.Max(s.BackboneRadius, MinBackboneRadius)
}

// Validate checks the settings against a sequence of the given length.
func (s *Settings) Validate(length int) error {
	if s.Width <= 0 || s.Height <= 0 || s.Width > MaxCanvasSize || s.Height > MaxCanvasSize {
		return errors.InvalidGeometry("canvas size %dx%d outside [1, %d]", s.Width, s.Height, MaxCanvasSize)
	}
	if !finitePositive(s.BackboneRadius) {
		return errors.InvalidGeometry("backbone radius must be finite and positive, got %v", s.BackboneRadius)
	}
	if math.IsNaN(s.Zoom) || math.IsInf(s.Zoom, 0) || s.Zoom < 1 {
		return errors.InvalidGeometry("zoom must be >= 1, got %v", s.Zoom)
	}
	if s.ZoomCenter < 1 || s.ZoomCenter > length {
		return errors.InvalidGeometry("zoom center %d outside [1, %d]", s.ZoomCenter, length)
	}

	positive := []struct {
		name  string
		value float64
	}{
		{"feature thickness", s.FeatureThickness},
		{"label font size", s.LabelFontSize},
		{"title font size", s.TitleFontSize},
		{"ruler font size", s.RulerFontSize},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %v", p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"backbone thickness", s.BackboneThickness},
		{"slot spacing", s.SlotSpacing},
		{"arrowhead length", s.ArrowheadLength},
		{"minimum feature length", s.MinimumFeatureLength},
		{"label line length", s.LabelLineLength},
		{"label line thickness", s.LabelLineThickness},
		{"tick length", s.TickLength},
		{"tick thickness", s.TickThickness},
		{"ruler text padding", s.RulerTextPadding},
	}
	for _, n := range nonNegative {
		if !(n.value >= 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative, got %v", n.name, n.value)
		}
	}

	return errors.ValidateText("title", s.Title)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
