package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/genome"
	gio "github.com/matzehuels/genomering/pkg/io"
	"github.com/matzehuels/genomering/pkg/labels"
	"github.com/matzehuels/genomering/pkg/pipeline"
	"github.com/matzehuels/genomering/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output       string  // output base path, or a file name whose extension picks the format
	formats      string  // comma-separated output formats
	html         bool    // write an HTML image map for the last raster output
	overlib      bool    // overlib mouseover style in the image map
	labelRegions bool    // image-map areas for linked labels too
	embedFont    bool    // embed the label font in SVG output
	jpegQuality  int     // JPEG encoder quality
	reuse        bool    // reuse a stored or cached label placement
	noCache      bool    // disable the placement cache
	placementIn  string  // placement JSON to render with
	placementOut string  // write the placement used as JSON
	quality      int     // label quality override
	width        int     // canvas width override
	height       int     // canvas height override
	zoom         float64 // zoom factor override
	zoomCenter   int     // zoom centre override

	series      string    // directory for a linked image series
	seriesZooms []float64 // zoom levels of the series
	seriesSVG   bool      // also write SVGZ images in the series
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{reuse: true, jpegQuality: 90}

	cmd := &cobra.Command{
		Use:   "render [map.toml|map.yaml]",
		Short: "Render a map description to image files",
		Long: `Render a map description to one or more image files.

Raster formats are png, jpeg, bmp and tiff; vector formats are svg and svgz
(gzip-compressed SVG). With --html an HTML image map is written next to the
last raster output, with one clickable area per linked range.

With --series a set of linked HTML pages is written to a directory: the
whole map, and for each labelled ruler position a view at the next zoom
level, with links to zoom in, zoom out and step around the circle.`,
		Example: `  genomering render puc19.toml
  genomering render puc19.toml -f png,svgz --html --overlib
  genomering render puc19.toml -o out/puc19.jpg --zoom 4 --zoom-center 150
  genomering render puc19.toml --series site --series-zooms 1,6,36`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts, cmd.Flags().Changed)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output base path (default: input path without extension)")
	f.StringVarP(&opts.formats, "format", "f", "png", "output format(s), comma-separated: png, jpeg, bmp, tiff, svg, svgz")
	f.BoolVar(&opts.html, "html", false, "write an HTML image map for the raster output")
	f.BoolVar(&opts.overlib, "overlib", false, "use overlib popups in the image map")
	f.BoolVar(&opts.labelRegions, "label-regions", false, "add image-map areas for linked labels")
	f.BoolVar(&opts.embedFont, "embed-font", false, "embed the label font in SVG output")
	f.IntVar(&opts.jpegQuality, "jpeg-quality", opts.jpegQuality, "JPEG quality (1-100)")
	f.BoolVar(&opts.reuse, "reuse", opts.reuse, "reuse a cached label placement when the map is unchanged")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the placement cache")
	f.StringVar(&opts.placementIn, "placement", "", "render with the placement in this JSON file")
	f.StringVar(&opts.placementOut, "placement-out", "", "write the placement used to this JSON file")
	f.IntVarP(&opts.quality, "quality", "q", 0, "label quality 1-10 (default: from the map file)")
	f.IntVar(&opts.width, "width", 0, "canvas width in pixels (default: from the map file)")
	f.IntVar(&opts.height, "height", 0, "canvas height in pixels (default: from the map file)")
	f.Float64Var(&opts.zoom, "zoom", 1, "zoom factor (>= 1)")
	f.IntVar(&opts.zoomCenter, "zoom-center", 1, "base at the top of the zoomed map")
	f.StringVar(&opts.series, "series", "", "write a linked image series to this directory")
	f.Float64SliceVar(&opts.seriesZooms, "series-zooms", pipeline.DefaultSeriesZooms, "zoom levels of the image series")
	f.BoolVar(&opts.seriesSVG, "series-svg", false, "also write SVGZ images in the image series")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts, changed func(string) bool) error {
	logger := loggerFromContext(ctx)

	base, formats, err := resolveOutputs(input, opts.output, opts.formats, changed("format"))
	if err != nil {
		return err
	}
	if opts.html && !slices.ContainsFunc(formats, sink.Format.IsRaster) {
		return errors.New(errors.ErrCodeInvalidInput, "--html needs a raster format (png, jpeg, bmp or tiff)")
	}

	m, err := gio.ImportMap(input)
	if err != nil {
		return err
	}
	if err := applyOverrides(m, opts, changed); err != nil {
		return err
	}

	exp, err := c.newExporter(m, opts.noCache)
	if err != nil {
		return err
	}
	defer exp.Close()
	exp.LabelRegions = opts.labelRegions
	exp.EmbedFont = opts.embedFont
	exp.JPEGQuality = opts.jpegQuality

	reuse := opts.reuse
	if opts.placementIn != "" {
		p, err := readPlacement(opts.placementIn)
		if err != nil {
			return err
		}
		if err := exp.UsePlacement(p); err != nil {
			return fmt.Errorf("%s: %w", opts.placementIn, err)
		}
		reuse = true
	}

	prog := newProgress(logger)
	p, cached, err := exp.PlacementWithCacheInfo(ctx, reuse)
	if err != nil {
		return err
	}

	var written []string
	var lastRaster string
	for _, f := range formats {
		out := base + f.Extension()
		if f.IsRaster() {
			err = exp.RenderRaster(ctx, out, f, true)
			lastRaster = out
		} else {
			err = exp.RenderVector(ctx, out, f == sink.SVGZ, true)
		}
		if err != nil {
			return err
		}
		written = append(written, out)
	}

	if opts.html {
		out := base + ".html"
		if err := exp.RenderImageMap(ctx, filepath.Base(lastRaster), out, opts.overlib); err != nil {
			return err
		}
		written = append(written, out)
	}

	if opts.placementOut != "" {
		if err := gio.WriteFileAtomic(opts.placementOut, func(w io.Writer) error {
			return gio.WritePlacementJSON(p, w)
		}); err != nil {
			return err
		}
		written = append(written, opts.placementOut)
	}
	prog.done(fmt.Sprintf("Exported %d files", len(written)))

	printRenderSummary(m, p, cached, written)

	if opts.series != "" {
		return c.runSeries(ctx, exp, opts)
	}
	return nil
}

func (c *CLI) runSeries(ctx context.Context, exp *pipeline.Exporter, opts *renderOpts) error {
	prog := newProgress(loggerFromContext(ctx))
	pages, err := exp.RenderSeries(ctx, opts.series, pipeline.SeriesOptions{
		Zooms:   opts.seriesZooms,
		Vector:  opts.seriesSVG,
		Overlib: opts.overlib,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Exported image series of %d pages", len(pages)))
	printSuccess("Wrote image series with %d pages", len(pages))
	printFile(filepath.Join(opts.series, pages[0].Page))
	return nil
}

// resolveOutputs derives the output base path and formats. An output path
// with a known extension selects that format unless --format was given.
func resolveOutputs(input, output, formats string, formatChanged bool) (string, []sink.Format, error) {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else if ext := filepath.Ext(output); ext != "" {
		if f, err := sink.ParseFormat(ext); err == nil {
			base = strings.TrimSuffix(output, ext)
			if !formatChanged {
				return base, []sink.Format{f}, nil
			}
		}
	}

	var out []sink.Format
	for _, name := range strings.Split(formats, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, err := sink.ParseFormat(name)
		if err != nil {
			return "", nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return "", nil, errors.New(errors.ErrCodeInvalidInput, "no output format given")
	}
	return base, out, nil
}

// applyOverrides installs the settings given on the command line.
func applyOverrides(m *genome.Map, opts *renderOpts, changed func(string) bool) error {
	if !slices.ContainsFunc([]string{"quality", "width", "height", "zoom", "zoom-center"}, changed) {
		return nil
	}
	return m.Update(func(s *genome.Settings) {
		if changed("quality") {
			s.LabelQuality = opts.quality
		}
		if changed("width") {
			s.Width = opts.width
		}
		if changed("height") {
			s.Height = opts.height
		}
		if changed("zoom") {
			s.Zoom = opts.zoom
		}
		if changed("zoom-center") {
			s.ZoomCenter = opts.zoomCenter
		}
	})
}

func readPlacement(path string) (*labels.Placement, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.IO(err, "open %s", path)
	}
	defer f.Close()
	return gio.ReadPlacementJSON(f)
}

func printRenderSummary(m *genome.Map, p *labels.Placement, cached bool, files []string) {
	s := m.Settings()
	title := s.Title
	if title == "" {
		title = "map"
	}
	printSuccess("Rendered %s", styleValue.Render(title))
	printDetail("%d bp · %d features · %dx%d", m.Length(), len(m.Features()), s.Width, s.Height)
	printLabelStats(len(p.Labels), len(p.Suppressed), p.Quality, cached)
	for _, f := range files {
		printFile(f)
	}
	if n := p.Exhausted(); n > 0 {
		printWarning("%d labels could not be placed; try a higher --quality or a larger canvas", n)
	}
}
