package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genomering/pkg/errors"
	"github.com/matzehuels/genomering/pkg/genome"
	gio "github.com/matzehuels/genomering/pkg/io"
)

const defaultSeed = 42

// demoPalette colours the slots of a demo map.
var demoPalette = []genome.Color{
	genome.RGB(0x1f, 0x77, 0xb4),
	genome.RGB(0xd6, 0x27, 0x28),
	genome.RGB(0x2c, 0xa0, 0x2c),
	genome.RGB(0xff, 0x7f, 0x0e),
	genome.RGB(0x94, 0x67, 0xbd),
}

// demoOpts holds the command-line flags for the demo command.
type demoOpts struct {
	output        string
	seed          uint64
	length        int
	slots         int
	features      int
	featureLength int
	render        bool
}

// demoCommand creates the demo command.
func (c *CLI) demoCommand() *cobra.Command {
	opts := demoOpts{
		output:        "demo.toml",
		seed:          defaultSeed,
		length:        12078,
		slots:         3,
		features:      100,
		featureLength: 1,
	}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a random map description",
		Long: `Write a map description with randomly placed features.

The default is a 12,078 bp sequence with three slots of 100 one-base
features each, which stresses the label placer. The same seed always
produces the same map.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(cmd.Context(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", opts.output, "output map description (.toml, .yaml or .yml)")
	f.Uint64Var(&opts.seed, "seed", opts.seed, "random seed")
	f.IntVar(&opts.length, "length", opts.length, "sequence length in bases")
	f.IntVar(&opts.slots, "slots", opts.slots, "number of slots")
	f.IntVar(&opts.features, "features", opts.features, "features per slot")
	f.IntVar(&opts.featureLength, "feature-length", opts.featureLength, "maximum feature length in bases")
	f.BoolVar(&opts.render, "render", false, "also render the map to PNG next to the description")

	return cmd
}

func (c *CLI) runDemo(ctx context.Context, opts *demoOpts) error {
	m, err := demoMap(opts)
	if err != nil {
		return err
	}
	if err := gio.ExportMap(m, opts.output); err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("wrote demo map", "path", opts.output, "features", len(m.Features()))
	printSuccess("Wrote demo map with %d features", len(m.Features()))
	printFile(opts.output)

	if !opts.render {
		printNextStep("Render it", "genomering render "+opts.output)
		return nil
	}

	exp, err := c.newExporter(m, false)
	if err != nil {
		return err
	}
	defer exp.Close()
	png := strings.TrimSuffix(opts.output, filepath.Ext(opts.output)) + ".png"
	if err := exp.RenderRaster(ctx, png, "", true); err != nil {
		return err
	}
	printFile(png)
	return nil
}

// demoMap builds a random map. Each slot alternates strand and colour.
func demoMap(opts *demoOpts) (*genome.Map, error) {
	if opts.slots <= 0 || opts.features < 0 || opts.featureLength <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"slots and feature length must be positive and features non-negative")
	}
	m, err := genome.New(opts.length, genome.WithTitle(fmt.Sprintf("demo (seed %d)", opts.seed)))
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	legend, err := m.AddLegend(genome.LowerRight)
	if err != nil {
		return nil, err
	}
	for si := range opts.slots {
		strand := genome.Direct
		if si%2 == 1 {
			strand = genome.Reverse
		}
		slot, err := m.AddSlot(strand)
		if err != nil {
			return nil, err
		}
		col := demoPalette[si%len(demoPalette)]
		if err := m.AddLegendItem(legend, genome.LegendItem{
			Text:   fmt.Sprintf("slot %d (%s)", si+1, strand),
			Swatch: col,
		}); err != nil {
			return nil, err
		}

		for fi := range opts.features {
			name := fmt.Sprintf("s%d-f%03d", si+1, fi+1)
			feature, err := m.AddFeature(slot, name, col)
			if err != nil {
				return nil, err
			}
			start := rng.IntN(opts.length) + 1
			stop := start + rng.IntN(min(opts.featureLength, opts.length))
			if stop > opts.length {
				stop -= opts.length
			}
			if _, err := m.AddRange(feature, start, stop,
				genome.Mouseover(fmt.Sprintf("%s %d..%d", name, start, stop))); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
