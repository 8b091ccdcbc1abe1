package sink

import (
	"image"
	"math"
	"strings"

	"github.com/jbeda/geom"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/scene"
)

// Format is an output file format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	SVG  Format = "svg"
	SVGZ Format = "svgz"
)

// RasterFormats lists the formats RenderRaster writes.
var RasterFormats = []Format{PNG, JPEG, BMP, TIFF}

// ParseFormat resolves a format name or file extension (with or without the
// leading dot). Unknown names are UNSUPPORTED.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	case "svg":
		return SVG, nil
	case "svgz":
		return SVGZ, nil
	}
	return "", errors.Unsupported("unsupported output format %q", name)
}

// IsRaster reports whether f is written by RenderRaster.
func (f Format) IsRaster() bool {
	switch f {
	case PNG, JPEG, BMP, TIFF:
		return true
	}
	return false
}

// Extension returns the usual file extension including the dot.
func (f Format) Extension() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// Result describes a finished render.
type Result struct {
	Format  Format
	Width   int
	Height  int
	Regions []Region
}

// Region is the pixel outline of one interactive primitive.
type Region struct {
	// Polygons are the outlines in image pixels, one per drawn subpath.
	Polygons [][]image.Point
	// Bounds encloses all polygons; Max is inclusive.
	Bounds image.Rectangle
	Link   scene.Link
	Source scene.Source
}

// pixel rounds a canvas coordinate to the nearest pixel.
func pixel(c geom.Coord) image.Point {
	return image.Point{X: int(math.Floor(c.X + 0.5)), Y: int(math.Floor(c.Y + 0.5))}
}

// newRegion converts canvas polygons to a pixel region.
func newRegion(polys [][]geom.Coord, link scene.Link, src scene.Source) Region {
	r := Region{Link: link, Source: src}
	first := true
	for _, poly := range polys {
		pts := make([]image.Point, 0, len(poly))
		for _, c := range poly {
			p := pixel(c)
			// Consecutive chords often round to the same pixel.
			if n := len(pts); n > 0 && pts[n-1] == p {
				continue
			}
			pts = append(pts, p)
			if first {
				r.Bounds = image.Rectangle{Min: p, Max: p}
				first = false
				continue
			}
			r.Bounds.Min.X = min(r.Bounds.Min.X, p.X)
			r.Bounds.Min.Y = min(r.Bounds.Min.Y, p.Y)
			r.Bounds.Max.X = max(r.Bounds.Max.X, p.X)
			r.Bounds.Max.Y = max(r.Bounds.Max.Y, p.Y)
		}
		if len(pts) > 0 {
			r.Polygons = append(r.Polygons, pts)
		}
	}
	return r
}

// rectPolygon returns the corners of r clockwise from the top left.
func rectPolygon(r geom.Rect) []geom.Coord {
	return []geom.Coord{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}
