package sink

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/jbeda/geom"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/fonts"
	"github.com/matzehuels/genomering/pkg/scene"
)

// RasterOption configures raster rendering.
type RasterOption func(*rasterRenderer)

type rasterRenderer struct {
	format       Format
	faces        *fonts.Faces
	labelRegions bool
	jpegQuality  int
}

// WithFormat sets the raster format (default PNG).
func WithFormat(f Format) RasterOption { return func(r *rasterRenderer) { r.format = f } }

// WithFaces sets the font used to draw text (default the embedded font).
func WithFaces(f *fonts.Faces) RasterOption { return func(r *rasterRenderer) { r.faces = f } }

// WithLabelRegions adds a region for every linked label text, not only for
// linked ranges.
func WithLabelRegions() RasterOption { return func(r *rasterRenderer) { r.labelRegions = true } }

// WithJPEGQuality sets the JPEG quality in [1, 100] (default 90).
func WithJPEGQuality(q int) RasterOption { return func(r *rasterRenderer) { r.jpegQuality = q } }

func newRasterRenderer(opts ...RasterOption) rasterRenderer {
	r := rasterRenderer{format: PNG, faces: fonts.Default(), jpegQuality: 90}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderRaster draws d and writes it to w in the configured format.
func RenderRaster(d *scene.DisplayList, w io.Writer, opts ...RasterOption) (Result, error) {
	r := newRasterRenderer(opts...)
	if !r.format.IsRaster() {
		return Result{}, errors.Unsupported("%s is not a raster format", r.format)
	}
	img, res, err := r.draw(d)
	if err != nil {
		return Result{}, err
	}
	if err := r.encode(w, img); err != nil {
		return Result{}, errors.IO(err, "encode %s", r.format)
	}
	return res, nil
}

// DrawImage draws d into a new image without encoding it.
func DrawImage(d *scene.DisplayList, opts ...RasterOption) (*image.RGBA, Result, error) {
	r := newRasterRenderer(opts...)
	return r.draw(d)
}

func (r *rasterRenderer) encode(w io.Writer, img *image.RGBA) error {
	switch r.format {
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: r.jpegQuality})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, img)
	}
}

// canvas holds the per-render rasterizer state. Faces and rasterx objects
// are not safe for concurrent use, so every render builds its own.
type canvas struct {
	img    *image.RGBA
	filler *rasterx.Filler
	dasher *rasterx.Dasher
	faces  map[float64]font.Face
	src    *fonts.Faces
}

func (r *rasterRenderer) draw(d *scene.DisplayList) (*image.RGBA, Result, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, Result{}, errors.InvalidGeometry("canvas size %dx%d", d.Width, d.Height)
	}
	img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
	scanner := rasterx.NewScannerGV(d.Width, d.Height, img, img.Bounds())
	c := &canvas{
		img:    img,
		filler: rasterx.NewFiller(d.Width, d.Height, scanner),
		dasher: rasterx.NewDasher(d.Width, d.Height, scanner),
		faces:  make(map[float64]font.Face),
		src:    r.faces,
	}
	c.filler.SetWinding(true)
	defer c.close()

	res := Result{Format: r.format, Width: d.Width, Height: d.Height}
	for _, p := range d.Items {
		switch p.Kind {
		case scene.KindShape:
			polys := p.Shape.Flatten(d.Center)
			c.fill(polys, p.Fill)
			if !p.Link.Empty() {
				res.Regions = append(res.Regions, newRegion(polys, p.Link, p.Source))
			}
		case scene.KindRect:
			c.fill([][]geom.Coord{rectPolygon(p.Rect)}, p.Fill)
		case scene.KindLine:
			c.stroke(p.Points, p.Stroke, p.StrokeWidth)
		case scene.KindText:
			box, err := c.text(p.Text, p.Fill)
			if err != nil {
				return nil, Result{}, err
			}
			if r.labelRegions && !p.Link.Empty() {
				res.Regions = append(res.Regions, newRegion([][]geom.Coord{rectPolygon(box)}, p.Link, p.Source))
			}
		}
	}
	return img, res, nil
}

func (c *canvas) fill(polys [][]geom.Coord, col color.RGBA) {
	if col.A == 0 {
		return
	}
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		c.filler.Start(fonts.Point(poly[0].X, poly[0].Y))
		for _, pt := range poly[1:] {
			c.filler.Line(fonts.Point(pt.X, pt.Y))
		}
		c.filler.Stop(true)
	}
	c.filler.SetColor(col)
	c.filler.Draw()
	c.filler.Clear()
}

func (c *canvas) stroke(points []geom.Coord, col color.RGBA, width float64) {
	if len(points) < 2 || col.A == 0 || width <= 0 {
		return
	}
	c.dasher.SetStroke(fixed.Int26_6(width*64), fixed.Int26_6(4*64),
		rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter, nil, 0)
	c.dasher.Start(fonts.Point(points[0].X, points[0].Y))
	for _, pt := range points[1:] {
		c.dasher.Line(fonts.Point(pt.X, pt.Y))
	}
	c.dasher.Stop(false)
	c.dasher.SetColor(col)
	c.dasher.Draw()
	c.dasher.Clear()
}

// text draws t and returns its box.
func (c *canvas) text(t scene.Text, col color.RGBA) (geom.Rect, error) {
	face, ok := c.faces[t.Size]
	if !ok {
		var err error
		if face, err = c.src.NewFace(t.Size); err != nil {
			return geom.Rect{}, errors.Wrap(errors.ErrCodeInternal, err, "font face at size %v", t.Size)
		}
		c.faces[t.Size] = face
	}
	dr := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fonts.Point(t.Origin.X, t.Origin.Y),
	}
	dr.DrawString(t.Content)

	m := c.src.Measure(t.Content, t.Size)
	return geom.Rect{
		Min: geom.Coord{X: t.Origin.X, Y: t.Origin.Y - m.Ascent},
		Max: geom.Coord{X: t.Origin.X + m.Width, Y: t.Origin.Y + m.Descent},
	}, nil
}

func (c *canvas) close() {
	for _, f := range c.faces {
		f.Close()
	}
}
