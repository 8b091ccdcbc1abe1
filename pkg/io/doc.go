// Package io reads and writes genome map descriptions and label placements.
//
// # Overview
//
// A map description is a TOML or YAML document holding everything needed to
// rebuild a [genome.Map]: the sequence length, drawing settings, slots with
// their features and ranges, and legends. The format is designed for:
//
//   - Hand-written maps checked into a repository next to the sequence
//   - Round-trip preservation: import, export and re-import identically
//   - Generated maps (the demo command writes its random map this way)
//
// # TOML Format
//
//	length = 12078
//
//	[settings]
//	title = "pUC19"
//	label_quality = 8
//
//	[[slots]]
//	strand = "direct"
//
//	  [[slots.features]]
//	  name = "lacZ"
//	  color = "#1f77b4"
//	  decoration = "clockwise-arrow"
//
//	    [[slots.features.ranges]]
//	    start = 146
//	    stop = 469
//	    hyperlink = "https://example.org/lacZ"
//
//	[[legends]]
//	position = "upper-right"
//
//	  [[legends.items]]
//	  text = "CDS"
//	  swatch = "#1f77b4"
//
// Omitted settings keep their defaults. Colours are "#rgb", "#rrggbb" or
// "#rrggbbaa". A range whose stop is before its start wraps across the
// origin.
//
// # Import
//
// Use [ImportMap] to read a file (the format follows the extension) or
// [ReadMap] to read from any io.Reader. Every value goes through the same
// validation as the genome API, and errors name the slot, feature and range
// that caused them.
//
// # Export
//
// Use [ExportMap] or [WriteMap]. Files are written with [WriteFileAtomic]:
// a temporary file in the destination directory is synced and renamed, so a
// failed export never leaves a truncated file behind.
//
// # Placements
//
// [WritePlacementJSON] and [ReadPlacementJSON] serialize a
// [labels.Placement] for inspection or for reuse by a later render.
//
// [genome.Map]: github.com/matzehuels/genomering/pkg/genome.Map
// [labels.Placement]: github.com/matzehuels/genomering/pkg/labels.Placement
package io
