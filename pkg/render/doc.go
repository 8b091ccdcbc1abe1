// Package render groups the output backends of genomering.
//
// Backends live in subpackages and consume a finished [scene.DisplayList]
// without modifying it, so several can run over the same list:
//
//   - [sink]: raster (PNG, JPEG, BMP, TIFF) and vector (SVG, SVGZ) output,
//     plus HTML image maps for raster renders
//
// [scene.DisplayList]: github.com/matzehuels/genomering/pkg/scene.DisplayList
// [sink]: github.com/matzehuels/genomering/pkg/render/sink
package render
