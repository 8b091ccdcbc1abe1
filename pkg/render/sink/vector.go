package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/jbeda/geom"
	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/fonts"
	"github.com/matzehuels/genomering/pkg/geometry"
	"github.com/matzehuels/genomering/pkg/scene"
)

// VectorOption configures vector rendering.
type VectorOption func(*vectorRenderer)

type vectorRenderer struct {
	compress  bool
	embedFont bool
}

// WithCompression gzips the SVG output (SVGZ).
func WithCompression() VectorOption { return func(r *vectorRenderer) { r.compress = true } }

// WithEmbeddedFont embeds the text font as a data URL so the SVG renders
// with the same metrics the labels were placed with.
func WithEmbeddedFont() VectorOption { return func(r *vectorRenderer) { r.embedFont = true } }

// RenderVector writes d as SVG to w.
func RenderVector(d *scene.DisplayList, w io.Writer, opts ...VectorOption) (Result, error) {
	var r vectorRenderer
	for _, opt := range opts {
		opt(&r)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return Result{}, errors.InvalidGeometry("canvas size %dx%d", d.Width, d.Height)
	}

	svg := r.render(d)
	res := Result{Format: SVG, Width: d.Width, Height: d.Height}
	if !r.compress {
		if _, err := w.Write(svg); err != nil {
			return Result{}, errors.IO(err, "write svg")
		}
		return res, nil
	}

	res.Format = SVGZ
	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInternal, err, "gzip writer")
	}
	if _, err := zw.Write(svg); err != nil {
		zw.Close()
		return Result{}, errors.IO(err, "write svgz")
	}
	if err := zw.Close(); err != nil {
		return Result{}, errors.IO(err, "write svgz")
	}
	return res, nil
}

func (r *vectorRenderer) render(d *scene.DisplayList) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		d.Width, d.Height, d.Width, d.Height)

	family := fonts.FallbackFontFamily
	if r.embedFont {
		fmt.Fprintf(&buf, "  <defs><style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }</style></defs>\n",
			fonts.FontFamily, fonts.RegularTTFBase64())
		family = "'" + fonts.FontFamily + "'"
	}

	for _, p := range d.Items {
		wrapLink(&buf, p.Link, func() {
			switch p.Kind {
			case scene.KindShape:
				fmt.Fprintf(&buf, `  <path d="%s"%s/>`, pathData(p.Shape, d.Center), fillAttrs(p.Fill))
			case scene.KindRect:
				fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s"%s/>`,
					num(p.Rect.Min.X), num(p.Rect.Min.Y), num(p.Rect.Width()), num(p.Rect.Height()), fillAttrs(p.Fill))
			case scene.KindLine:
				renderLine(&buf, p)
			case scene.KindText:
				fmt.Fprintf(&buf, `  <text x="%s" y="%s" font-family="%s" font-size="%s"%s>%s</text>`,
					num(p.Text.Origin.X), num(p.Text.Origin.Y), escapeXML(family), num(p.Text.Size),
					fillAttrs(p.Fill), escapeXML(p.Text.Content))
			}
		})
		buf.WriteByte('\n')
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLine(buf *bytes.Buffer, p scene.Primitive) {
	if len(p.Points) < 2 {
		return
	}
	buf.WriteString(`  <polyline points="`)
	for i, pt := range p.Points {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(num(pt.X) + "," + num(pt.Y))
	}
	fmt.Fprintf(buf, `" fill="none" stroke="%s" stroke-width="%s"`, hexColor(p.Stroke), num(p.StrokeWidth))
	if p.Stroke.A < 0xff {
		fmt.Fprintf(buf, ` stroke-opacity="%s"`, num(float64(p.Stroke.A)/0xff))
	}
	buf.WriteString("/>")
}

// wrapLink wraps the output of fn in an anchor for hyperlinks and adds a
// tooltip for mouseover text.
func wrapLink(buf *bytes.Buffer, l scene.Link, fn func()) {
	switch {
	case l.Hyperlink != "":
		fmt.Fprintf(buf, `  <a xlink:href="%s" target="_blank">`, escapeXML(l.Hyperlink))
		if l.Mouseover != "" {
			fmt.Fprintf(buf, "<title>%s</title>", escapeXML(l.Mouseover))
		}
		fn()
		buf.WriteString("</a>")
	case l.Mouseover != "":
		fmt.Fprintf(buf, "  <g><title>%s</title>", escapeXML(l.Mouseover))
		fn()
		buf.WriteString("</g>")
	default:
		fn()
	}
}

// pathData converts a polar path to SVG path data with exact arcs. Arcs
// longer than half a turn are split so the large-arc flag is never needed.
func pathData(p geometry.PolarPath, center geom.Coord) string {
	var (
		buf   bytes.Buffer
		theta float64
	)
	point := func(r, a float64) string {
		c := geometry.Point(center, r, a)
		return num(c.X) + " " + num(c.Y)
	}
	for _, op := range p {
		switch op.Kind {
		case geometry.MoveTo:
			buf.WriteString("M" + point(op.R, op.Theta))
			theta = op.Theta
		case geometry.LineTo:
			buf.WriteString("L" + point(op.R, op.Theta))
			theta = op.Theta
		case geometry.ArcTo:
			sweep := op.Theta - theta
			n := max(1, int(math.Ceil(math.Abs(sweep)/math.Pi)))
			flag := 1
			if sweep < 0 {
				flag = 0
			}
			for i := 1; i <= n; i++ {
				a := theta + sweep*float64(i)/float64(n)
				fmt.Fprintf(&buf, "A%s %s 0 0 %d %s", num(op.R), num(op.R), flag, point(op.R, a))
			}
			theta = op.Theta
		case geometry.Close:
			buf.WriteString("Z")
		}
	}
	return buf.String()
}

func fillAttrs(c color.RGBA) string {
	if c.A == 0 {
		return ` fill="none"`
	}
	s := ` fill="` + hexColor(c) + `"`
	if c.A < 0xff {
		s += ` fill-opacity="` + num(float64(c.A)/0xff) + `"`
	}
	return s
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
