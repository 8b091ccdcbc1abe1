package sink

import (
	"io"

	"github.com/matzehuels/genomering/pkg/scene"
)

// Renderer writes a finished display list to w.
type Renderer interface {
	Render(d *scene.DisplayList, w io.Writer) (Result, error)
}

// Raster is the raster Renderer.
type Raster struct{ opts []RasterOption }

// NewRaster returns a raster Renderer with the given options.
func NewRaster(opts ...RasterOption) Raster { return Raster{opts: opts} }

// Render implements Renderer.
func (r Raster) Render(d *scene.DisplayList, w io.Writer) (Result, error) {
	return RenderRaster(d, w, r.opts...)
}

// Vector is the SVG Renderer.
type Vector struct{ opts []VectorOption }

// NewVector returns an SVG Renderer with the given options.
func NewVector(opts ...VectorOption) Vector { return Vector{opts: opts} }

// Render implements Renderer.
func (v Vector) Render(d *scene.DisplayList, w io.Writer) (Result, error) {
	return RenderVector(d, w, v.opts...)
}

var (
	_ Renderer = Raster{}
	_ Renderer = Vector{}
)
