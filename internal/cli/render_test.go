package cli

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genomering/pkg/errors"
	gio "github.com/matzehuels/genomering/pkg/io"
	"github.com/matzehuels/genomering/pkg/render/sink"
)

func TestResolveOutputs(t *testing.T) {
	tests := []struct {
		name          string
		input, output string
		formats       string
		formatChanged bool
		wantBase      string
		wantFormats   []sink.Format
	}{
		{"default base", "maps/puc19.toml", "", "png", false, "maps/puc19", []sink.Format{sink.PNG}},
		{"format list", "a.toml", "", "png, svgz,png", true, "a", []sink.Format{sink.PNG, sink.SVGZ}},
		{"extension picks format", "a.toml", "out/b.jpg", "png", false, "out/b", []sink.Format{sink.JPEG}},
		{"explicit format wins", "a.toml", "out/b.jpg", "svg", true, "out/b", []sink.Format{sink.SVG}},
		{"unknown extension is part of base", "a.toml", "out/b.v2", "bmp", false, "out/b.v2", []sink.Format{sink.BMP}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, formats, err := resolveOutputs(tt.input, tt.output, tt.formats, tt.formatChanged)
			if err != nil {
				t.Fatalf("resolveOutputs() error: %v", err)
			}
			if base != tt.wantBase {
				t.Errorf("base = %q, want %q", base, tt.wantBase)
			}
			if !slices.Equal(formats, tt.wantFormats) {
				t.Errorf("formats = %v, want %v", formats, tt.wantFormats)
			}
		})
	}
}

func TestResolveOutputsErrors(t *testing.T) {
	if _, _, err := resolveOutputs("a.toml", "", "gif", true); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unknown format: got %v, want UNSUPPORTED", err)
	}
	if _, _, err := resolveOutputs("a.toml", "", " , ", true); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty format list: got %v, want INVALID_INPUT", err)
	}
}

func TestDemoMapIsDeterministic(t *testing.T) {
	opts := &demoOpts{seed: 7, length: 12078, slots: 3, features: 100, featureLength: 1}
	a, err := demoMap(opts)
	if err != nil {
		t.Fatalf("demoMap() error: %v", err)
	}
	b, err := demoMap(opts)
	if err != nil {
		t.Fatalf("demoMap() error: %v", err)
	}
	if len(a.Ranges()) != 300 {
		t.Fatalf("got %d ranges, want 300", len(a.Ranges()))
	}
	if !slices.Equal(a.Ranges(), b.Ranges()) {
		t.Error("same seed should produce the same ranges")
	}
	for _, r := range a.Ranges() {
		if r.Span() != 1 {
			t.Fatalf("range %d..%d should cover one base", r.Start, r.Stop)
		}
	}

	if _, err := demoMap(&demoOpts{length: 100, slots: 0, featureLength: 1}); err == nil {
		t.Error("zero slots should be rejected")
	}
}

// runCLI executes the root command with args. The placement cache lives in
// a temporary directory.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestDemoThenRender(t *testing.T) {
	dir := t.TempDir()
	desc := filepath.Join(dir, "demo.yaml")
	if err := runCLI(t, "demo", "-o", desc, "--features", "20"); err != nil {
		t.Fatalf("demo: %v", err)
	}
	if _, err := gio.ImportMap(desc); err != nil {
		t.Fatalf("demo output does not read back: %v", err)
	}

	placement := filepath.Join(dir, "placement.json")
	err := runCLI(t, "render", desc, "-f", "png,svgz", "--html", "--overlib", "--placement-out", placement, "-q", "3")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	base := filepath.Join(dir, "demo")
	for _, ext := range []string{".png", ".svgz", ".html"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing output %s: %v", ext, err)
		}
	}

	html, err := os.ReadFile(base + ".html")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), `src="demo.png"`) {
		t.Errorf("image map should reference the raster file by name:\n%s", html)
	}

	// Rendering again with the written placement reuses it.
	err = runCLI(t, "render", desc, "-o", filepath.Join(dir, "again.bmp"), "--placement", placement, "-q", "3")
	if err != nil {
		t.Fatalf("render with placement: %v", err)
	}
	// A placement for other settings is rejected.
	err = runCLI(t, "render", desc, "-o", filepath.Join(dir, "zoomed.png"), "--placement", placement, "-q", "3", "--zoom", "2")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("mismatched placement: got %v, want INVALID_INPUT", err)
	}
}

func TestRenderSeriesCommand(t *testing.T) {
	dir := t.TempDir()
	desc := filepath.Join(dir, "demo.toml")
	if err := runCLI(t, "demo", "-o", desc, "--features", "5"); err != nil {
		t.Fatalf("demo: %v", err)
	}
	site := filepath.Join(dir, "site")
	if err := runCLI(t, "render", desc, "--series", site, "--series-zooms", "1,4", "--series-svg"); err != nil {
		t.Fatalf("render --series: %v", err)
	}
	index, err := os.ReadFile(filepath.Join(site, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), `href="4_`) {
		t.Errorf("index should link to zoomed pages:\n%s", index)
	}
	for _, sub := range []string{"img/1_1.png", "svg/1_1.svgz"} {
		if _, err := os.Stat(filepath.Join(site, sub)); err != nil {
			t.Errorf("missing %s: %v", sub, err)
		}
	}

	err = runCLI(t, "render", desc, "--series", site, "--series-zooms", "2,4")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad zoom levels: got %v, want INVALID_INPUT", err)
	}
}

func TestRenderHTMLNeedsRaster(t *testing.T) {
	dir := t.TempDir()
	desc := filepath.Join(dir, "m.toml")
	if err := os.WriteFile(desc, []byte("length = 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := runCLI(t, "render", desc, "-f", "svg", "--html")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "m.svg")); !os.IsNotExist(err) {
		t.Error("nothing should be written when the flags are rejected")
	}
}

func TestRenderMissingFile(t *testing.T) {
	err := runCLI(t, "render", filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("got %v, want FILE_NOT_FOUND", err)
	}
}
