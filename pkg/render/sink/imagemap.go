package sink

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/genomering/pkg/errors"
)

// ImageMapStyle selects how mouseover text is attached to areas.
type ImageMapStyle int

const (
	// PlainMap uses title and alt attributes.
	PlainMap ImageMapStyle = iota
	// OverlibMap calls the overlib JavaScript library.
	OverlibMap
)

// mapNamespace seeds map names so the same image always gets the same name.
var mapNamespace = uuid.MustParse("8c0f6cf4-2d55-4a6e-a3c9-5fb1d0a8f1e2")

// MapName returns the deterministic map name for an image.
func MapName(imageName string) string {
	return "genomering-" + uuid.NewSHA1(mapNamespace, []byte(imageName)).String()
}

// WriteImageMap writes an <img> element and a client-side image map for a
// raster render. Regions made of a single outline become poly areas;
// regions split into several outlines (by zoom clipping) become the rect
// enclosing them, except a ring around a hole, which becomes one poly
// that leaves the hole out. res must come from RenderRaster or DrawImage.
func WriteImageMap(w io.Writer, res Result, imageName string, style ImageMapStyle) error {
	if !res.Format.IsRaster() {
		return errors.Unsupported("image map needs a raster render, got %q", res.Format)
	}

	name := MapName(imageName)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<img src="%s" usemap="#%s" width="%d" height="%d" border="0" alt="">`+"\n",
		escapeXML(imageName), name, res.Width, res.Height)
	fmt.Fprintf(&buf, `<map name="%s" id="%s">`+"\n", name, name)
	for _, r := range res.Regions {
		writeArea(&buf, r, style)
	}
	buf.WriteString("</map>\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.IO(err, "write image map")
	}
	return nil
}

func writeArea(buf *bytes.Buffer, r Region, style ImageMapStyle) {
	if len(r.Polygons) == 0 {
		return
	}
	shape, coords := areaShape(r)
	fmt.Fprintf(buf, `  <area shape="%s" coords="%s"`, shape, coords)
	if r.Link.Hyperlink != "" {
		fmt.Fprintf(buf, ` href="%s"`, escapeXML(r.Link.Hyperlink))
	} else {
		buf.WriteString(" nohref")
	}
	if text := r.Link.Mouseover; text != "" {
		switch style {
		case OverlibMap:
			fmt.Fprintf(buf, ` onmouseover="return overlib('%s');" onmouseout="return nd();"`, escapeXML(jsString(text)))
		default:
			fmt.Fprintf(buf, ` title="%s" alt="%s"`, escapeXML(text), escapeXML(text))
		}
	} else {
		buf.WriteString(` alt=""`)
	}
	buf.WriteString(">\n")
}

// areaShape picks the area shape and coordinates for a region.
func areaShape(r Region) (string, string) {
	if len(r.Polygons) == 1 && len(r.Polygons[0]) >= 3 {
		return "poly", polyCoords(r.Polygons[0])
	}
	if poly, ok := ringPolygon(r.Polygons); ok {
		return "poly", polyCoords(poly)
	}
	return "rect", rectCoords(r.Bounds)
}

// ringPolygon joins an outline and a hole inside it into one polygon
// through a zero-width seam. It reports false unless polys is exactly such
// a pair.
func ringPolygon(polys [][]image.Point) ([]image.Point, bool) {
	if len(polys) != 2 || len(polys[0]) < 3 || len(polys[1]) < 3 {
		return nil, false
	}
	outer, hole := polys[0], polys[1]
	if !encloses(outer, hole) {
		outer, hole = hole, outer
		if !encloses(outer, hole) {
			return nil, false
		}
	}

	start := outer[0]
	k, best := 0, -1
	for i, p := range hole {
		d := p.Sub(start)
		if dist := d.X*d.X + d.Y*d.Y; best < 0 || dist < best {
			k, best = i, dist
		}
	}

	out := make([]image.Point, 0, len(outer)+len(hole)+2)
	out = append(out, outer...)
	out = append(out, start)
	out = append(out, hole[k:]...)
	out = append(out, hole[:k]...)
	out = append(out, hole[k])
	return out, true
}

// encloses reports whether the bounds of b lie strictly inside those of a.
func encloses(a, b []image.Point) bool {
	ab, bb := pointBounds(a), pointBounds(b)
	return bb.Min.X > ab.Min.X && bb.Min.Y > ab.Min.Y && bb.Max.X < ab.Max.X && bb.Max.Y < ab.Max.Y
}

func pointBounds(pts []image.Point) image.Rectangle {
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X, r.Min.Y = min(r.Min.X, p.X), min(r.Min.Y, p.Y)
		r.Max.X, r.Max.Y = max(r.Max.X, p.X), max(r.Max.Y, p.Y)
	}
	return r
}

func polyCoords(pts []image.Point) string {
	parts := make([]string, 0, 2*len(pts))
	for _, p := range pts {
		parts = append(parts, strconv.Itoa(p.X), strconv.Itoa(p.Y))
	}
	return strings.Join(parts, ",")
}

func rectCoords(b image.Rectangle) string {
	return fmt.Sprintf("%d,%d,%d,%d", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

// jsString escapes text for a single-quoted JavaScript string literal.
func jsString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", "").Replace(s)
}
