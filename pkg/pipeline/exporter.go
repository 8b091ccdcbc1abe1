package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/genomering/pkg/cache"
	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/fonts"
	"github.com/matzehuels/genomering/pkg/genome"
	gio "github.com/matzehuels/genomering/pkg/io"
	"github.com/matzehuels/genomering/pkg/labels"
	"github.com/matzehuels/genomering/pkg/observability"
	"github.com/matzehuels/genomering/pkg/render/sink"
	"github.com/matzehuels/genomering/pkg/scene"
)

// Exporter renders one map to files or writers. It is not safe for
// concurrent use.
type Exporter struct {
	Map      *genome.Map
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Measurer labels.Measurer

	// LabelRegions adds image-map areas for linked labels.
	LabelRegions bool
	// EmbedFont embeds the label font in vector output.
	EmbedFont bool
	// JPEGQuality overrides the JPEG encoder quality when non-zero.
	JPEGQuality int

	lastRaster *rasterRecord
}

// rasterRecord remembers the most recent raster render of the session.
type rasterRecord struct {
	result   sink.Result
	revision uint64
}

// NewExporter creates an exporter for m. A nil cache disables caching, a
// nil keyer uses cache.DefaultKeyer and a nil logger discards output.
func NewExporter(m *genome.Map, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Exporter {
	if c == nil {
		c = cache.NullCache{}
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Exporter{Map: m, Cache: c, Keyer: keyer, Logger: logger, Measurer: fonts.Default()}
}

// Close releases the cache.
func (e *Exporter) Close() error {
	if e.Cache != nil {
		return e.Cache.Close()
	}
	return nil
}

// =============================================================================
// Placement
// =============================================================================

// Placement returns the label placement for the current map state and
// stores it on the map.
func (e *Exporter) Placement(ctx context.Context, reuse bool) (*labels.Placement, error) {
	p, _, err := e.PlacementWithCacheInfo(ctx, reuse)
	return p, err
}

// PlacementWithCacheInfo is Placement that also reports whether the result
// came from the map or the cache instead of a placement run.
func (e *Exporter) PlacementWithCacheInfo(ctx context.Context, reuse bool) (*labels.Placement, bool, error) {
	l, err := e.layout()
	if err != nil {
		return nil, false, err
	}
	return e.placement(ctx, l, reuse)
}

// UsePlacement installs a placement computed elsewhere, for example one
// read back with io.ReadPlacementJSON. It must match the current map state.
func (e *Exporter) UsePlacement(p *labels.Placement) error {
	l, err := e.layout()
	if err != nil {
		return err
	}
	if fp := l.Fingerprint(); p == nil || p.Fingerprint != fp {
		return errors.New(errors.ErrCodeInvalidInput, "placement does not match map state %.12s", fp)
	}
	e.Map.StorePlacement(p)
	return nil
}

func (e *Exporter) layout() (*scene.Layout, error) {
	m := e.Measurer
	if m == nil {
		m = fonts.Default()
	}
	return scene.NewLayout(e.Map, m)
}

func (e *Exporter) placement(ctx context.Context, l *scene.Layout, reuse bool) (*labels.Placement, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	fp := l.Fingerprint()
	key := e.Keyer.PlacementKey(fp, l.Params().Quality)

	if reuse {
		if p := e.Map.Placement(); p != nil && p.Fingerprint == fp {
			e.Logger.Debug("reusing stored placement", "labels", len(p.Labels))
			return p, true, nil
		}
		if p, ok := e.cachedPlacement(ctx, key, fp); ok {
			e.Map.StorePlacement(p)
			e.Logger.Debug("placement cache hit", "labels", len(p.Labels))
			return p, true, nil
		}
	}

	hooks := observability.Export()
	hooks.OnPlacementStart(ctx, len(l.Requests()))
	start := time.Now()
	p := l.Place()
	elapsed := time.Since(start)
	hooks.OnPlacementComplete(ctx, len(p.Labels), len(p.Suppressed), p.Exhausted(), elapsed)
	e.Logger.Info("placed labels",
		"placed", len(p.Labels),
		"suppressed", len(p.Suppressed),
		"quality", p.Quality,
		"duration", elapsed.Round(time.Millisecond))
	if n := p.Exhausted(); n > 0 {
		e.Logger.Warn("labels could not be placed", "count", n)
	}

	if data, err := msgpack.Marshal(p); err == nil {
		if err := e.Cache.Set(ctx, key, data, cache.TTLPlacement); err != nil {
			e.Logger.Debug("placement cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "placement", len(data))
		}
	}
	e.Map.StorePlacement(p)
	return p, false, nil
}

func (e *Exporter) cachedPlacement(ctx context.Context, key, fp string) (*labels.Placement, bool) {
	data, hit, err := e.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "placement")
		return nil, false
	}
	var p labels.Placement
	if err := msgpack.Unmarshal(data, &p); err != nil || p.Fingerprint != fp {
		e.Logger.Debug("discarding cached placement", "key", key)
		_ = e.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "placement")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "placement")
	return &p, true
}

// DisplayList builds the display list for the current map state.
func (e *Exporter) DisplayList(ctx context.Context, reuse bool) (*scene.DisplayList, error) {
	l, err := e.layout()
	if err != nil {
		return nil, err
	}
	p, _, err := e.placement(ctx, l, reuse)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	d, err := l.Build(p)
	if err != nil {
		return nil, err
	}
	e.Logger.Debug("built scene", "items", len(d.Items), "duration", time.Since(start).Round(time.Millisecond))
	return d, nil
}

// =============================================================================
// Raster
// =============================================================================

// WriteRaster renders the map in a raster format to w.
func (e *Exporter) WriteRaster(ctx context.Context, w io.Writer, format sink.Format, reuse bool) (sink.Result, error) {
	res, err := e.raster(ctx, w, format, reuse)
	if err != nil {
		return sink.Result{}, err
	}
	e.recordRaster(res)
	return res, nil
}

// RenderRaster renders the map to path. An empty format is taken from the
// file extension.
func (e *Exporter) RenderRaster(ctx context.Context, path string, format sink.Format, reuse bool) error {
	if format == "" {
		f, err := sink.ParseFormat(filepath.Ext(path))
		if err != nil {
			return err
		}
		format = f
	}
	if !format.IsRaster() {
		return errors.Unsupported("%s is not a raster format", format)
	}

	var res sink.Result
	err := gio.WriteFileAtomic(path, func(w io.Writer) error {
		var err error
		res, err = e.raster(ctx, w, format, reuse)
		return err
	})
	if err != nil {
		return err
	}
	e.recordRaster(res)
	e.Logger.Info("wrote raster", "path", path, "format", format,
		"size", fmt.Sprintf("%dx%d", res.Width, res.Height), "regions", len(res.Regions))
	return nil
}

func (e *Exporter) raster(ctx context.Context, w io.Writer, format sink.Format, reuse bool) (sink.Result, error) {
	d, err := e.DisplayList(ctx, reuse)
	if err != nil {
		return sink.Result{}, err
	}
	opts := []sink.RasterOption{sink.WithFormat(format)}
	if e.LabelRegions {
		opts = append(opts, sink.WithLabelRegions())
	}
	if e.JPEGQuality > 0 {
		opts = append(opts, sink.WithJPEGQuality(e.JPEGQuality))
	}
	return e.render(ctx, sink.NewRaster(opts...), string(format), d, w)
}

func (e *Exporter) recordRaster(res sink.Result) {
	e.lastRaster = &rasterRecord{result: res, revision: e.Map.Revision()}
}

// =============================================================================
// Vector
// =============================================================================

// WriteVector renders the map as SVG, or gzip-compressed SVGZ, to w.
func (e *Exporter) WriteVector(ctx context.Context, w io.Writer, compress, reuse bool) (sink.Result, error) {
	d, err := e.DisplayList(ctx, reuse)
	if err != nil {
		return sink.Result{}, err
	}
	var opts []sink.VectorOption
	if compress {
		opts = append(opts, sink.WithCompression())
	}
	if e.EmbedFont {
		opts = append(opts, sink.WithEmbeddedFont())
	}
	format := sink.SVG
	if compress {
		format = sink.SVGZ
	}
	return e.render(ctx, sink.NewVector(opts...), string(format), d, w)
}

// RenderVector renders the map as SVG to path.
func (e *Exporter) RenderVector(ctx context.Context, path string, compress, reuse bool) error {
	var res sink.Result
	err := gio.WriteFileAtomic(path, func(w io.Writer) error {
		var err error
		res, err = e.WriteVector(ctx, w, compress, reuse)
		return err
	})
	if err != nil {
		return err
	}
	e.Logger.Info("wrote vector", "path", path, "format", res.Format)
	return nil
}

func (e *Exporter) render(ctx context.Context, r sink.Renderer, format string, d *scene.DisplayList, w io.Writer) (sink.Result, error) {
	if err := ctx.Err(); err != nil {
		return sink.Result{}, err
	}
	hooks := observability.Export()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	res, err := r.Render(d, w)
	elapsed := time.Since(start)
	hooks.OnRenderComplete(ctx, format, elapsed, err)
	if err != nil {
		return sink.Result{}, err
	}
	e.Logger.Debug("rendered", "format", res.Format, "duration", elapsed.Round(time.Millisecond))
	return res, nil
}

// =============================================================================
// Image map
// =============================================================================

// WriteImageMap writes the HTML image map of the last raster render to w.
// imageName is the src of the generated <img> element.
func (e *Exporter) WriteImageMap(w io.Writer, imageName string, overlib bool) error {
	if e.lastRaster == nil {
		return errors.Unsupported("image map export needs a raster render first")
	}
	if e.lastRaster.revision != e.Map.Revision() {
		return errors.Unsupported("map changed since the last raster render")
	}
	style := sink.PlainMap
	if overlib {
		style = sink.OverlibMap
	}
	return sink.WriteImageMap(w, e.lastRaster.result, imageName, style)
}

// RenderImageMap writes the HTML image map of the last raster render to
// path.
func (e *Exporter) RenderImageMap(ctx context.Context, imageName, path string, overlib bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := gio.WriteFileAtomic(path, func(w io.Writer) error {
		return e.WriteImageMap(w, imageName, overlib)
	}); err != nil {
		return err
	}
	e.Logger.Info("wrote image map", "path", path, "areas", len(e.lastRaster.result.Regions))
	return nil
}
