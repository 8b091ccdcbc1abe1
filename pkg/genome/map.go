// Package genome holds the data model of a circular genome map: the
// sequence length, drawing settings, slots, features, ranges and legends.
//
// Entities live in arenas owned by the Map and refer to each other by typed
// indices (SlotID, FeatureID, RangeID, LegendID). Accessors return copies, so
// the only way to change a Map is through its methods, and every change bumps
// the map revision. A cached label placement is only returned while the
// revision it was computed for is current.
package genome

import (
	"slices"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/labels"
)

// Typed arena indices.
type (
	SlotID    int
	FeatureID int
	RangeID   int
	LegendID  int
)

// Slot is a ring of features on one strand.
type Slot struct {
	Strand Strand
	// Thickness overrides Settings.FeatureThickness when positive.
	Thickness float64
}

// Feature is a named, coloured annotation made of one or more ranges.
type Feature struct {
	Slot  SlotID
	Name  string
	Color Color
	// ShowLabel enables labels for the feature's ranges.
	ShowLabel bool
	// Decoration is the default decoration of new ranges.
	Decoration Decoration
	Ranges     []RangeID
}

// Range is a contiguous stretch of the sequence belonging to a feature.
// Start is in [1, length]; Stop is in [Start, Start+length-1], so a range
// crossing the origin has Stop > length.
type Range struct {
	Feature    FeatureID
	Start      int
	Stop       int
	Decoration Decoration
	// Color overrides the feature colour when set.
	Color     Color
	Hyperlink string
	Mouseover string
	// Label overrides the feature name as label text.
	Label      string
	ForceLabel bool
	// Proportion of the slot thickness the range is drawn with, in [0, 1].
	// Zero draws the full thickness.
	Proportion float64
	// RadiusAdjustment places a thinner range between the inner (0) and
	// outer (1) edge of its slot.
	RadiusAdjustment float64
}

// Interactive reports whether the range carries a hyperlink or mouseover.
func (r Range) Interactive() bool {
	return r.Hyperlink != "" || r.Mouseover != ""
}

// Span returns the number of bases covered.
func (r Range) Span() int { return r.Stop - r.Start + 1 }

// LegendItem is one line of a legend.
type LegendItem struct {
	Text  string
	Align Alignment
	// Swatch draws a colour square before the text when set.
	Swatch Color
	// Color is the text colour; black when not set.
	Color Color
}

// Legend is a box of text lines anchored on the canvas.
type Legend struct {
	Position LegendPosition
	FontSize float64
	// Background fills the legend box when set.
	Background Color
	Items      []LegendItem
}

// Map is the root aggregate of a circular genome map.
type Map struct {
	length   int
	settings Settings

	slots    []Slot
	features []Feature
	ranges   []Range
	legends  []Legend

	revision uint64

	placement         *labels.Placement
	placementRevision uint64
}

// Option configures a new Map.
type Option func(*Settings)

// WithSize sets the canvas size.
func WithSize(width, height int) Option {
	return func(s *Settings) { s.Width, s.Height = width, height }
}

// WithTitle sets the title drawn in the centre.
func WithTitle(title string) Option {
	return func(s *Settings) { s.Title = title }
}

// WithSettings replaces all settings.
func WithSettings(settings Settings) Option {
	return func(s *Settings) { *s = settings }
}

// New creates an empty map for a sequence of the given length.
func New(length int, opts ...Option) (*Map, error) {
	if length <= 0 {
		return nil, errors.InvalidGeometry("sequence length must be positive, got %d", length)
	}
	s := DefaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	s.Normalize()
	if err := s.Validate(length); err != nil {
		return nil, err
	}
	return &Map{length: length, settings: s}, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Length returns the sequence length.
func (m *Map) Length() int { return m.length }

// Settings returns a copy of the current settings.
func (m *Map) Settings() Settings { return m.settings }

// Revision increases on every mutation.
func (m *Map) Revision() uint64 { return m.revision }

// Slots returns the slots in declaration order.
func (m *Map) Slots() []Slot { return slices.Clone(m.slots) }

// Features returns the features in declaration order.
func (m *Map) Features() []Feature {
	out := slices.Clone(m.features)
	for i := range out {
		out[i].Ranges = slices.Clone(out[i].Ranges)
	}
	return out
}

// Feature returns one feature.
func (m *Map) Feature(id FeatureID) (Feature, bool) {
	if int(id) < 0 || int(id) >= len(m.features) {
		return Feature{}, false
	}
	f := m.features[id]
	f.Ranges = slices.Clone(f.Ranges)
	return f, true
}

// Ranges returns all ranges; a range's RangeID is its index.
func (m *Map) Ranges() []Range { return slices.Clone(m.ranges) }

// Range returns one range.
func (m *Map) Range(id RangeID) (Range, bool) {
	if int(id) < 0 || int(id) >= len(m.ranges) {
		return Range{}, false
	}
	return m.ranges[id], true
}

// Legends returns the legends in declaration order.
func (m *Map) Legends() []Legend {
	out := slices.Clone(m.legends)
	for i := range out {
		out[i].Items = slices.Clone(out[i].Items)
	}
	return out
}

// Placement returns the cached label placement if it was stored at the
// current revision, otherwise nil.
func (m *Map) Placement() *labels.Placement {
	if m.placement == nil || m.placementRevision != m.revision {
		return nil
	}
	return m.placement
}

// StorePlacement caches p for the current revision. It does not count as a
// mutation.
func (m *Map) StorePlacement(p *labels.Placement) {
	m.placement = p
	m.placementRevision = m.revision
}

// =============================================================================
// Mutations
// =============================================================================

func (m *Map) touch() {
	m.revision++
	m.placement = nil
}

// Update applies fn to a copy of the settings, normalizes and validates the
// result, and installs it. On error the map is unchanged.
func (m *Map) Update(fn func(*Settings)) error {
	s := m.settings
	fn(&s)
	s.Normalize()
	if err := s.Validate(m.length); err != nil {
		return err
	}
	m.settings = s
	m.touch()
	return nil
}

// SetZoom sets the zoom factor and centre.
func (m *Map) SetZoom(zoom float64, center int) error {
	return m.Update(func(s *Settings) {
		s.Zoom = zoom
		s.ZoomCenter = center
	})
}

// SlotOption configures a slot.
type SlotOption func(*Slot)

// SlotThickness overrides the feature thickness for one slot.
func SlotThickness(t float64) SlotOption {
	return func(s *Slot) { s.Thickness = t }
}

// AddSlot appends a slot. Its stacking position is its declaration order
// among slots of the same strand.
func (m *Map) AddSlot(strand Strand, opts ...SlotOption) (SlotID, error) {
	s := Slot{Strand: strand}
	for _, opt := range opts {
		opt(&s)
	}
	if strand != Direct && strand != Reverse {
		return 0, errors.InvalidGeometry("unknown strand %d", strand)
	}
	if s.Thickness < 0 {
		return 0, errors.InvalidGeometry("slot thickness must not be negative, got %v", s.Thickness)
	}
	m.slots = append(m.slots, s)
	m.touch()
	return SlotID(len(m.slots) - 1), nil
}

// FeatureOption configures a feature.
type FeatureOption func(*Feature)

// WithoutLabels disables labels for a feature.
func WithoutLabels() FeatureOption {
	return func(f *Feature) { f.ShowLabel = false }
}

// WithDecoration sets the default decoration of the feature's ranges.
func WithDecoration(d Decoration) FeatureOption {
	return func(f *Feature) { f.Decoration = d }
}

// AddFeature adds a feature to a slot.
func (m *Map) AddFeature(slot SlotID, name string, c Color, opts ...FeatureOption) (FeatureID, error) {
	if int(slot) < 0 || int(slot) >= len(m.slots) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown slot %d", slot)
	}
	if err := errors.ValidateText("feature name", name); err != nil {
		return 0, err
	}
	f := Feature{Slot: slot, Name: name, Color: c.Or(Black), ShowLabel: true}
	for _, opt := range opts {
		opt(&f)
	}
	m.features = append(m.features, f)
	m.touch()
	return FeatureID(len(m.features) - 1), nil
}

// RangeOption configures a range.
type RangeOption func(*Range)

// Decorated sets the range decoration.
func Decorated(d Decoration) RangeOption {
	return func(r *Range) { r.Decoration = d }
}

// Hyperlink attaches a link target.
func Hyperlink(url string) RangeOption {
	return func(r *Range) { r.Hyperlink = url }
}

// Mouseover attaches hover text.
func Mouseover(text string) RangeOption {
	return func(r *Range) { r.Mouseover = text }
}

// Label overrides the label text.
func Label(text string) RangeOption {
	return func(r *Range) { r.Label = text }
}

// ForceLabel draws the label even when no collision-free position exists.
func ForceLabel() RangeOption {
	return func(r *Range) { r.ForceLabel = true }
}

// Proportion draws the range with a fraction of the slot thickness.
func Proportion(p float64) RangeOption {
	return func(r *Range) { r.Proportion = p }
}

// RadiusAdjustment shifts a thinner range between the inner (0) and outer
// (1) edge of its slot.
func RadiusAdjustment(a float64) RangeOption {
	return func(r *Range) { r.RadiusAdjustment = a }
}

// RangeColor overrides the feature colour.
func RangeColor(c Color) RangeOption {
	return func(r *Range) { r.Color = c }
}

// AddRange adds a range to a feature. Stop may exceed the sequence length,
// or be less than start, to describe a range that crosses the origin; the
// stored range always has Start <= Stop. Ranges longer than the sequence are
// INVALID_GEOMETRY.
func (m *Map) AddRange(feature FeatureID, start, stop int, opts ...RangeOption) (RangeID, error) {
	if int(feature) < 0 || int(feature) >= len(m.features) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown feature %d", feature)
	}
	start, stop, err := NormalizeRange(start, stop, m.length)
	if err != nil {
		return 0, err
	}

	r := Range{
		Feature:    feature,
		Start:      start,
		Stop:       stop,
		Decoration: m.features[feature].Decoration,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if err := validateRange(r); err != nil {
		return 0, err
	}

	m.ranges = append(m.ranges, r)
	id := RangeID(len(m.ranges) - 1)
	m.features[feature].Ranges = append(m.features[feature].Ranges, id)
	m.touch()
	return id, nil
}

// NormalizeRange validates start and stop against a sequence length and
// returns the canonical form with start <= stop.
func NormalizeRange(start, stop, length int) (int, int, error) {
	if start < 1 || start > length {
		return 0, 0, errors.InvalidGeometry("range start %d outside [1, %d]", start, length)
	}
	if stop < 1 {
		return 0, 0, errors.InvalidGeometry("range stop %d must be positive", stop)
	}
	if stop < start {
		if stop > length {
			return 0, 0, errors.InvalidGeometry("range stop %d outside [1, %d]", stop, length)
		}
		stop += length
	}
	if stop-start+1 > length {
		return 0, 0, errors.InvalidGeometry("range %d..%d is longer than the sequence (%d)", start, stop, length)
	}
	return start, stop, nil
}

func validateRange(r Range) error {
	if r.Decoration < Arc || r.Decoration > Hidden {
		return errors.InvalidGeometry("unknown decoration %d", r.Decoration)
	}
	if !(r.Proportion >= 0 && r.Proportion <= 1) {
		return errors.InvalidGeometry("range thickness proportion %v outside [0, 1]", r.Proportion)
	}
	if !(r.RadiusAdjustment >= 0 && r.RadiusAdjustment <= 1) {
		return errors.InvalidGeometry("range radius adjustment %v outside [0, 1]", r.RadiusAdjustment)
	}
	if r.Hyperlink != "" {
		if err := errors.ValidateHyperlink(r.Hyperlink); err != nil {
			return err
		}
	}
	if err := errors.ValidateText("mouseover", r.Mouseover); err != nil {
		return err
	}
	return errors.ValidateText("label", r.Label)
}

// LegendOption configures a legend.
type LegendOption func(*Legend)

// LegendFontSize sets the legend font size.
func LegendFontSize(size float64) LegendOption {
	return func(l *Legend) { l.FontSize = size }
}

// LegendBackground fills the legend box.
func LegendBackground(c Color) LegendOption {
	return func(l *Legend) { l.Background = c }
}

// AddLegend adds an empty legend at an anchor position.
func (m *Map) AddLegend(pos LegendPosition, opts ...LegendOption) (LegendID, error) {
	if pos < UpperLeft || pos > LowerRight {
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown legend position %d", pos)
	}
	l := Legend{Position: pos, FontSize: DefaultLegendFontSize}
	for _, opt := range opts {
		opt(&l)
	}
	if !(l.FontSize > 0) {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "legend font size must be positive, got %v", l.FontSize)
	}
	m.legends = append(m.legends, l)
	m.touch()
	return LegendID(len(m.legends) - 1), nil
}

// AddLegendItem appends a line to a legend.
func (m *Map) AddLegendItem(id LegendID, item LegendItem) error {
	if int(id) < 0 || int(id) >= len(m.legends) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown legend %d", id)
	}
	if item.Align < AlignLeft || item.Align > AlignRight {
		return errors.New(errors.ErrCodeInvalidInput, "unknown alignment %d", item.Align)
	}
	if err := errors.ValidateText("legend item", item.Text); err != nil {
		return err
	}
	m.legends[id].Items = append(m.legends[id].Items, item)
	m.touch()
	return nil
}
