// Package sink renders a [scene.DisplayList] to output formats.
//
// # Overview
//
// A "sink" turns the backend-neutral display list into bytes:
//
//   - Raster: PNG, JPEG, BMP and TIFF, rasterized with rasterx
//   - Vector: SVG with exact arcs, optionally gzip-compressed (SVGZ)
//   - Image map: an HTML client-side image map for a raster render
//
// Both renderers walk the same primitives in the same order, so raster and
// vector output agree on what is drawn and where.
//
// # Raster Output
//
// [RenderRaster] draws every primitive and returns a [Result] whose regions
// record the pixel outlines of interactive primitives:
//
//	res, err := sink.RenderRaster(list, w, sink.WithFormat(sink.PNG))
//
// # Image Maps
//
// [WriteImageMap] emits one <area> per region of a raster Result. It needs
// the Result of a raster render; the regions are the same polygons the
// rasterizer filled.
//
// # Vector Output
//
// [RenderVector] writes SVG. Ranges become <path> elements with arc commands,
// links become <a> elements and mouseover text becomes <title>:
//
//	_, err := sink.RenderVector(list, w, sink.WithCompression(), sink.WithEmbeddedFont())
package sink
