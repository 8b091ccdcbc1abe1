package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/genomering/pkg/errors"
	gio "github.com/matzehuels/genomering/pkg/io"
	"github.com/matzehuels/genomering/pkg/render/sink"
)

// DefaultSeriesZooms are the zoom levels of an image series.
var DefaultSeriesZooms = []float64{1, 6, 36}

// MaxSeriesPages bounds the number of pages a single series may produce.
const MaxSeriesPages = 2000

const (
	seriesIndex     = "index.html"
	seriesImageDir  = "img"
	seriesVectorDir = "svg"
)

var seriesPrinter = message.NewPrinter(language.English)

// SeriesOptions configure RenderSeries.
type SeriesOptions struct {
	// Zooms are the zoom levels, ascending and starting at 1. Nil uses
	// DefaultSeriesZooms.
	Zooms []float64
	// Format is the raster format of the page images. Empty means PNG.
	Format sink.Format
	// Vector also writes a gzip-compressed SVG for every page.
	Vector bool
	// Overlib uses overlib popups in the image maps.
	Overlib bool
}

// SeriesPage is one view of an image series. Paths are relative to the
// series directory and use forward slashes.
type SeriesPage struct {
	Zoom   float64
	Center int
	Page   string
	Image  string
	Vector string
	// Parent is the page this view was expanded from, empty for the index.
	Parent string
	// Children are the views one zoom level deeper, one per labelled ruler
	// tick of this view.
	Children []string
}

type seriesNode struct {
	SeriesPage
	parent   *seriesNode
	children []*seriesNode
}

// RenderSeries writes a linked set of views into dir. The index page shows
// the whole map; each labelled ruler tick of a view becomes the centre of a
// view at the next zoom level. Every page carries the image map of its
// raster image and links to zoom out, zoom in and step to the neighbouring
// views of the same level. The map's zoom settings are restored afterwards.
func (e *Exporter) RenderSeries(ctx context.Context, dir string, opts SeriesOptions) (pages []SeriesPage, err error) {
	zooms, err := seriesZooms(opts.Zooms)
	if err != nil {
		return nil, err
	}
	format := opts.Format
	if format == "" {
		format = sink.PNG
	}
	if !format.IsRaster() {
		return nil, errors.Unsupported("series images need a raster format, got %s", format)
	}
	subdirs := []string{seriesImageDir}
	if opts.Vector {
		subdirs = append(subdirs, seriesVectorDir)
	}
	for _, sub := range subdirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, errors.IO(err, "create %s", filepath.Join(dir, sub))
		}
	}

	orig := e.Map.Settings()
	defer func() {
		if rerr := e.Map.SetZoom(orig.Zoom, orig.ZoomCenter); rerr != nil && err == nil {
			err = rerr
		}
	}()

	start := time.Now()
	root := &seriesNode{SeriesPage: SeriesPage{Zoom: zooms[0], Center: 1, Page: seriesIndex}}
	level := []*seriesNode{root}
	total := 1
	for k := range zooms {
		slices.SortFunc(level, func(a, b *seriesNode) int { return a.Center - b.Center })
		var next []*seriesNode
		byCenter := make(map[int]*seriesNode)

		for i, n := range level {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := e.renderSeriesView(ctx, dir, n, format, opts.Vector); err != nil {
				return nil, err
			}

			if k+1 < len(zooms) {
				d, err := e.DisplayList(ctx, true)
				if err != nil {
					return nil, err
				}
				for _, v := range d.RulerPositions() {
					c, ok := byCenter[v]
					if !ok {
						if total++; total > MaxSeriesPages {
							return nil, errors.New(errors.ErrCodeInvalidInput,
								"image series exceeds %d pages; use fewer or smaller zoom levels", MaxSeriesPages)
						}
						c = &seriesNode{parent: n, SeriesPage: SeriesPage{Zoom: zooms[k+1], Center: v}}
						c.Page = seriesBase(c.Zoom, c.Center) + ".html"
						c.Parent = n.Page
						byCenter[v] = c
						next = append(next, c)
					}
					n.children = append(n.children, c)
					n.Children = append(n.Children, c.Page)
				}
			}

			var prev, after *seriesNode
			if len(level) > 1 {
				prev = level[(i+len(level)-1)%len(level)]
				after = level[(i+1)%len(level)]
			}
			if err := e.writeSeriesPage(dir, n, prev, after, opts.Overlib); err != nil {
				return nil, err
			}
			e.Logger.Debug("wrote series page", "page", n.Page, "zoom", n.Zoom, "center", n.Center)
			pages = append(pages, n.SeriesPage)
		}
		level = next
	}

	e.Logger.Info("wrote image series", "dir", dir, "pages", len(pages),
		"duration", time.Since(start).Round(time.Millisecond))
	return pages, nil
}

// seriesZooms validates the zoom levels of a series.
func seriesZooms(zooms []float64) ([]float64, error) {
	if len(zooms) == 0 {
		return DefaultSeriesZooms, nil
	}
	if zooms[0] != 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "series zoom levels must start at 1, got %v", zooms[0])
	}
	for i := 1; i < len(zooms); i++ {
		if math.IsInf(zooms[i], 0) || !(zooms[i] > zooms[i-1]) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "series zoom levels must be finite and ascending: %v", zooms)
		}
	}
	return zooms, nil
}

func seriesBase(zoom float64, center int) string {
	return strconv.FormatFloat(zoom, 'f', -1, 64) + "_" + strconv.Itoa(center)
}

func (e *Exporter) renderSeriesView(ctx context.Context, dir string, n *seriesNode, format sink.Format, vector bool) error {
	if err := e.Map.SetZoom(n.Zoom, n.Center); err != nil {
		return err
	}
	base := seriesBase(n.Zoom, n.Center)
	n.Image = seriesImageDir + "/" + base + format.Extension()
	if err := e.RenderRaster(ctx, filepath.Join(dir, filepath.FromSlash(n.Image)), format, true); err != nil {
		return err
	}
	if vector {
		n.Vector = seriesVectorDir + "/" + base + sink.SVGZ.Extension()
		if err := e.RenderVector(ctx, filepath.Join(dir, filepath.FromSlash(n.Vector)), true, true); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeSeriesPage(dir string, n, prev, next *seriesNode, overlib bool) error {
	title := e.Map.Settings().Title
	if title == "" {
		title = "genomering"
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n</head>\n<body>\n",
		html.EscapeString(seriesPrinter.Sprintf("%s (zoom %v, base %d)", title, n.Zoom, n.Center)))
	if overlib {
		buf.WriteString(`<div id="overDiv" style="position:absolute; visibility:hidden; z-index:1000;"></div>` + "\n")
		buf.WriteString(`<script type="text/javascript" src="overlib.js"></script>` + "\n")
	}

	var nav []string
	link := func(target *seriesNode, text string) {
		if target != nil {
			nav = append(nav, fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(target.Page), text))
		}
	}
	link(n.parent, "zoom out")
	link(nearestChild(n, e.Map.Length()), "zoom in")
	link(prev, "counterclockwise")
	link(next, "clockwise")
	if len(nav) > 0 {
		buf.WriteString(`<p class="nav">`)
		for i, a := range nav {
			if i > 0 {
				buf.WriteString(" | ")
			}
			buf.WriteString(a)
		}
		buf.WriteString("</p>\n")
	}

	if err := e.WriteImageMap(&buf, n.Image, overlib); err != nil {
		return err
	}

	if len(n.children) > 0 {
		buf.WriteString(`<p class="expand">Expand:`)
		for _, c := range n.children {
			pos := seriesPrinter.Sprintf("%d", c.Center)
			fmt.Fprintf(&buf, ` <a href="%s" title="expand %s bp region">%s</a>`, html.EscapeString(c.Page), pos, pos)
		}
		buf.WriteString("</p>\n")
	}
	if n.Vector != "" {
		fmt.Fprintf(&buf, "<p><a href=\"%s\">SVG</a></p>\n", html.EscapeString(n.Vector))
	}
	buf.WriteString("</body>\n</html>\n")

	return gio.WriteFileAtomic(filepath.Join(dir, n.Page), func(w io.Writer) error {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return errors.IO(err, "write %s", n.Page)
		}
		return nil
	})
}

// nearestChild returns the child view whose centre is closest to the centre
// of n around the circle.
func nearestChild(n *seriesNode, length int) *seriesNode {
	var best *seriesNode
	bestDist := 0
	for _, c := range n.children {
		d := (c.Center - n.Center) % length
		if d < 0 {
			d += length
		}
		d = min(d, length-d)
		if best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
