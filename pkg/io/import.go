package io

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/genome"
)

// Format is a map description file format.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatFromPath picks the description format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", errors.Unsupported("unknown map description extension %q (want .toml, .yaml or .yml)", filepath.Ext(path))
}

type document struct {
	Length   int             `toml:"length" yaml:"length"`
	Settings genome.Settings `toml:"settings" yaml:"settings"`
	Slots    []slotDoc       `toml:"slots,omitempty" yaml:"slots,omitempty"`
	Legends  []legendDoc     `toml:"legends,omitempty" yaml:"legends,omitempty"`
}

type slotDoc struct {
	Strand    genome.Strand `toml:"strand" yaml:"strand"`
	Thickness float64       `toml:"thickness,omitempty" yaml:"thickness,omitempty"`
	Features  []featureDoc  `toml:"features,omitempty" yaml:"features,omitempty"`
}

type featureDoc struct {
	Name       string             `toml:"name" yaml:"name"`
	Color      *genome.Color      `toml:"color,omitempty" yaml:"color,omitempty"`
	Decoration *genome.Decoration `toml:"decoration,omitempty" yaml:"decoration,omitempty"`
	Labels     *bool              `toml:"labels,omitempty" yaml:"labels,omitempty"`
	Ranges     []rangeDoc         `toml:"ranges,omitempty" yaml:"ranges,omitempty"`
}

type rangeDoc struct {
	Start      int                `toml:"start" yaml:"start"`
	Stop       int                `toml:"stop" yaml:"stop"`
	Decoration *genome.Decoration `toml:"decoration,omitempty" yaml:"decoration,omitempty"`
	Color      *genome.Color      `toml:"color,omitempty" yaml:"color,omitempty"`
	Hyperlink  string             `toml:"hyperlink,omitempty" yaml:"hyperlink,omitempty"`
	Mouseover  string             `toml:"mouseover,omitempty" yaml:"mouseover,omitempty"`
	Label      string             `toml:"label,omitempty" yaml:"label,omitempty"`
	ForceLabel bool               `toml:"force_label,omitempty" yaml:"force_label,omitempty"`

	Proportion       float64 `toml:"proportion,omitempty" yaml:"proportion,omitempty"`
	RadiusAdjustment float64 `toml:"radius_adjustment,omitempty" yaml:"radius_adjustment,omitempty"`
}

type legendDoc struct {
	Position   genome.LegendPosition `toml:"position" yaml:"position"`
	FontSize   float64               `toml:"font_size,omitempty" yaml:"font_size,omitempty"`
	Background *genome.Color         `toml:"background,omitempty" yaml:"background,omitempty"`
	Items      []legendItemDoc       `toml:"items,omitempty" yaml:"items,omitempty"`
}

type legendItemDoc struct {
	Text   string           `toml:"text" yaml:"text"`
	Align  genome.Alignment `toml:"align,omitempty" yaml:"align,omitempty"`
	Swatch *genome.Color    `toml:"swatch,omitempty" yaml:"swatch,omitempty"`
	Color  *genome.Color    `toml:"color,omitempty" yaml:"color,omitempty"`
}

// ReadMap decodes a map description from r. Unknown keys are rejected so
// that typos do not silently fall back to defaults.
func ReadMap(r io.Reader, format Format) (*genome.Map, error) {
	doc := document{Settings: genome.DefaultSettings()}

	switch format {
	case TOML:
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undecoded[0].String())
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if stderrors.Is(err, io.EOF) {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "empty map description")
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return nil, errors.Unsupported("unknown map description format %q", format)
	}

	return doc.build()
}

// ImportMap reads the map description at path.
func ImportMap(path string) (*genome.Map, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.IO(err, "open %s", path)
	}
	defer f.Close()

	m, err := ReadMap(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (d *document) build() (*genome.Map, error) {
	m, err := genome.New(d.Length, genome.WithSettings(d.Settings))
	if err != nil {
		return nil, err
	}

	for si, sd := range d.Slots {
		var opts []genome.SlotOption
		if sd.Thickness != 0 {
			opts = append(opts, genome.SlotThickness(sd.Thickness))
		}
		slot, err := m.AddSlot(sd.Strand, opts...)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", si, err)
		}

		for _, fd := range sd.Features {
			var fopts []genome.FeatureOption
			if fd.Decoration != nil {
				fopts = append(fopts, genome.WithDecoration(*fd.Decoration))
			}
			if fd.Labels != nil && !*fd.Labels {
				fopts = append(fopts, genome.WithoutLabels())
			}
			var c genome.Color
			if fd.Color != nil {
				c = *fd.Color
			}
			feature, err := m.AddFeature(slot, fd.Name, c, fopts...)
			if err != nil {
				return nil, fmt.Errorf("slot %d feature %q: %w", si, fd.Name, err)
			}

			for ri, rd := range fd.Ranges {
				if _, err := m.AddRange(feature, rd.Start, rd.Stop, rd.options()...); err != nil {
					return nil, fmt.Errorf("slot %d feature %q range %d: %w", si, fd.Name, ri, err)
				}
			}
		}
	}

	for li, ld := range d.Legends {
		var opts []genome.LegendOption
		if ld.FontSize != 0 {
			opts = append(opts, genome.LegendFontSize(ld.FontSize))
		}
		if ld.Background != nil {
			opts = append(opts, genome.LegendBackground(*ld.Background))
		}
		id, err := m.AddLegend(ld.Position, opts...)
		if err != nil {
			return nil, fmt.Errorf("legend %d: %w", li, err)
		}
		for ii, it := range ld.Items {
			item := genome.LegendItem{Text: it.Text, Align: it.Align}
			if it.Swatch != nil {
				item.Swatch = *it.Swatch
			}
			if it.Color != nil {
				item.Color = *it.Color
			}
			if err := m.AddLegendItem(id, item); err != nil {
				return nil, fmt.Errorf("legend %d item %d: %w", li, ii, err)
			}
		}
	}
	return m, nil
}

func (rd rangeDoc) options() []genome.RangeOption {
	var opts []genome.RangeOption
	if rd.Decoration != nil {
		opts = append(opts, genome.Decorated(*rd.Decoration))
	}
	if rd.Color != nil {
		opts = append(opts, genome.RangeColor(*rd.Color))
	}
	if rd.Hyperlink != "" {
		opts = append(opts, genome.Hyperlink(rd.Hyperlink))
	}
	if rd.Mouseover != "" {
		opts = append(opts, genome.Mouseover(rd.Mouseover))
	}
	if rd.Label != "" {
		opts = append(opts, genome.Label(rd.Label))
	}
	if rd.ForceLabel {
		opts = append(opts, genome.ForceLabel())
	}
	if rd.Proportion != 0 {
		opts = append(opts, genome.Proportion(rd.Proportion))
	}
	if rd.RadiusAdjustment != 0 {
		opts = append(opts, genome.RadiusAdjustment(rd.RadiusAdjustment))
	}
	return opts
}
