// Package pkg provides the libraries behind genomering, a renderer for
// circular genome maps.
//
// # Overview
//
// A map is a sequence of a given length with features arranged on
// concentric slots around a backbone circle. The packages are layered:
//
//  1. [genome] - The map model: slots, features, ranges, legends, settings
//  2. [geometry] - Base-to-angle mapping, zoom window, ring allocation, polar shapes
//  3. [labels] - Collision-free label placement
//  4. [scene] - Assembly of the ordered display list
//  5. [render/sink] - Raster, SVG and HTML image-map output
//  6. [pipeline] - Export sessions sequencing the stages above
//
// Supporting packages are [io] (TOML/YAML map descriptions), [cache]
// (persistent placement cache), [fonts] (embedded font and text metrics),
// [errors] (error codes) and [observability] (metrics hooks).
//
// # Data flow
//
//	map description (TOML/YAML)
//	         ↓
//	    [genome.Map]
//	         ↓
//	    [scene.Layout] → [labels.Place]
//	         ↓
//	    [scene.DisplayList]
//	         ↓
//	    PNG/JPEG/BMP/TIFF + image map, SVG/SVGZ
//
// # Quick Start
//
//	m, _ := io.ImportMap("puc19.toml")
//	exp := pipeline.NewExporter(m, nil, nil, nil)
//	if err := exp.RenderRaster(ctx, "puc19.png", sink.PNG, false); err != nil {
//	    return err
//	}
//	err := exp.RenderImageMap(ctx, "puc19.png", "puc19.html", false)
package pkg
