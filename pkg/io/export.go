package io

import (
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/genome"
)

// WriteMap encodes m as a map description. Reading the output back with
// [ReadMap] yields an equivalent map.
func WriteMap(m *genome.Map, w io.Writer, format Format) error {
	doc := documentOf(m)
	switch format {
	case TOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return errors.IO(err, "encode toml")
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.IO(err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return errors.IO(err, "encode yaml")
		}
		return nil
	}
	return errors.Unsupported("unknown map description format %q", format)
}

// ExportMap writes m to path atomically, in the format its extension names.
func ExportMap(m *genome.Map, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, func(w io.Writer) error {
		return WriteMap(m, w, format)
	})
}

func documentOf(m *genome.Map) document {
	doc := document{Length: m.Length(), Settings: m.Settings()}
	features := m.Features()
	ranges := m.Ranges()

	slotDocs := make([]slotDoc, len(m.Slots()))
	for i, s := range m.Slots() {
		slotDocs[i] = slotDoc{Strand: s.Strand, Thickness: s.Thickness}
	}
	for _, f := range features {
		fd := featureDoc{
			Name:       f.Name,
			Color:      colorPtr(f.Color),
			Decoration: &f.Decoration,
		}
		if !f.ShowLabel {
			fd.Labels = new(bool)
		}
		for _, id := range f.Ranges {
			r := ranges[id]
			rd := rangeDoc{
				Start:      r.Start,
				Stop:       r.Stop,
				Color:      colorPtr(r.Color),
				Hyperlink:  r.Hyperlink,
				Mouseover:  r.Mouseover,
				Label:      r.Label,
				ForceLabel: r.ForceLabel,

				Proportion:       r.Proportion,
				RadiusAdjustment: r.RadiusAdjustment,
			}
			if r.Decoration != f.Decoration {
				rd.Decoration = &r.Decoration
			}
			fd.Ranges = append(fd.Ranges, rd)
		}
		slotDocs[f.Slot].Features = append(slotDocs[f.Slot].Features, fd)
	}
	doc.Slots = slotDocs

	for _, lg := range m.Legends() {
		ld := legendDoc{
			Position:   lg.Position,
			FontSize:   lg.FontSize,
			Background: colorPtr(lg.Background),
		}
		for _, it := range lg.Items {
			ld.Items = append(ld.Items, legendItemDoc{
				Text:   it.Text,
				Align:  it.Align,
				Swatch: colorPtr(it.Swatch),
				Color:  colorPtr(it.Color),
			})
		}
		doc.Legends = append(doc.Legends, ld)
	}
	return doc
}

// colorPtr returns nil for unset colours so they are omitted.
func colorPtr(c genome.Color) *genome.Color {
	if !c.IsSet() {
		return nil
	}
	return &c
}
