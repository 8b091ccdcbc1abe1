// Package pipeline sequences layout, label placement and rendering for one
// genome map.
//
// An [Exporter] owns a map for the duration of an export session. Every
// export builds a fresh display list from the current map state, so the
// raster, vector and image-map outputs of one session always agree:
//
//	exp := pipeline.NewExporter(m, cache, nil, logger)
//	defer exp.Close()
//	if err := exp.RenderRaster(ctx, "map.png", sink.PNG, false); err != nil {
//	    return err
//	}
//	// Reuse the placement computed for the PNG.
//	if err := exp.RenderVector(ctx, "map.svgz", true, true); err != nil {
//	    return err
//	}
//	err := exp.RenderImageMap(ctx, "map.png", "map.html", true)
//
// # Placement reuse
//
// Label placement is the expensive stage. With reuse set, an export uses the
// placement stored on the map if it is still valid, then the cache, and
// only then runs the placer. Without reuse the placer always runs and its
// result replaces the cached entry. Either way the placement used is stored
// back on the map.
//
// # Image maps
//
// An image map describes the regions of the most recent raster render of
// the session. Requesting one before any raster render, or after the map
// changed since that render, fails with UNSUPPORTED.
//
// All file outputs are written atomically: a failed export leaves any
// existing file at the destination untouched.
package pipeline
