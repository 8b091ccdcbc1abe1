// Package fonts provides the embedded font used for measuring and drawing
// text.
//
// Label placement and both renderers measure text with the same font so that
// raster and vector output agree on label extents. The font is Go Regular,
// shipped with golang.org/x/image, so no font files are read at runtime.
package fonts

import (
	"encoding/base64"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/genomering/pkg/labels"
)

// FontFamily is the CSS font-family name of the embedded font.
const FontFamily = "Go Regular"

// FallbackFontFamily is used in SVG output when the font is not embedded.
const FallbackFontFamily = `'Go Regular', 'Go', 'DejaVu Sans', Arial, sans-serif`

// RegularTTF returns the TTF font data.
func RegularTTF() []byte {
	return goregular.TTF
}

// Cache for the base64-encoded font (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// RegularTTFBase64 returns the TTF font data as a base64 string.
// The result is cached after first computation.
func RegularTTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// Faces measures text and creates font faces at arbitrary pixel sizes.
// It is safe for concurrent use.
type Faces struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

var (
	defaultFaces     *Faces
	defaultFacesOnce sync.Once
)

// Default returns the shared Faces for the embedded font.
func Default() *Faces {
	defaultFacesOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			panic(err) // the embedded font is always valid
		}
		defaultFaces = &Faces{font: f, faces: make(map[float64]font.Face)}
	})
	return defaultFaces
}

// NewFace returns a new face at size pixels. Faces are not safe for
// concurrent use, so each renderer creates its own.
func (f *Faces) NewFace(size float64) (font.Face, error) {
	return opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Measure returns the advance width, ascent and descent of text at size
// pixels.
func (f *Faces) Measure(text string, size float64) labels.Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()

	face, ok := f.faces[size]
	if !ok {
		var err error
		if face, err = f.NewFace(size); err != nil {
			// Only invalid sizes fail; fall back to a proportional estimate.
			return labels.Metrics{Width: 0.6 * size * float64(len(text)), Ascent: 0.8 * size, Descent: 0.2 * size}
		}
		f.faces[size] = face
	}

	m := face.Metrics()
	return labels.Metrics{
		Width:   fixedToFloat(font.MeasureString(face, text)),
		Ascent:  math.Ceil(fixedToFloat(m.Ascent)),
		Descent: math.Ceil(fixedToFloat(m.Descent)),
	}
}

var _ labels.Measurer = (*Faces)(nil)
