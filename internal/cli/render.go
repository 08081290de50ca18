package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boolnet/pkg/cache"
	"github.com/matzehuels/boolnet/pkg/errors"
	"github.com/matzehuels/boolnet/pkg/network"
	"github.com/matzehuels/boolnet/pkg/render/nodelink"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"
)

var validFormats = []string{formatSVG, formatDOT}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file, "-" for stdout
	format   string // "svg" or "dot"
	detailed bool   // add state and input count to labels
	onColor  string // fill for on nodes
	offColor string // fill for off nodes
	noCache  bool
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a network as a node-link diagram",
		Long: `Render a network with Graphviz. Nodes are filled by state and labelled with
their 1-based index; an arrow i -> j means node i reads node j.

Rendered artifacts are cached by network content and options.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd, inputPath(args), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (default <input>.<format>, "-" for stdout)`)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show state and input count in labels")
	cmd.Flags().StringVar(&opts.onColor, "on-color", "", "fill colour for on nodes")
	cmd.Flags().StringVar(&opts.offColor, "off-color", "", "fill colour for off nodes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(validFormats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func validateFormat(format string) error {
	if !slices.Contains(validFormats, format) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be %s)", format, strings.Join(validFormats, " or "))
	}
	return nil
}

// outputPath derives the artifact path from the input path.
func outputPath(input, output, format string) string {
	if output != "" {
		return output
	}
	if input == stdinPath {
		return stdinPath
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	ctx := cmd.Context()
	s, err := c.load(ctx, path)
	if err != nil {
		return err
	}
	n, err := s.Network()
	if err != nil {
		return err
	}
	text, err := s.Text()
	if err != nil {
		return err
	}

	store, err := c.newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	key := cache.ArtifactKey(cache.Hash(text), cache.ArtifactKeyOpts{
		Format:   opts.format,
		OnColor:  opts.onColor,
		OffColor: opts.offColor,
		Detailed: opts.detailed,
	})

	prog := newProgress(loggerFromContext(ctx))
	data, cached, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !cached {
		if data, err = c.renderArtifact(cmd, n, opts); err != nil {
			return err
		}
		if err := store.Set(ctx, key, data, c.cfg.Cache.TTL); err != nil {
			loggerFromContext(ctx).Warn("cache write failed", "err", err)
		}
	}
	prog.done("Rendered " + opts.format)

	out := outputPath(path, opts.output, opts.format)
	if out == stdinPath {
		return c.writeRaw(data)
	}
	if err := writeFile(out, data); err != nil {
		return err
	}
	c.printSuccess("Rendered %s", opts.format)
	c.printFile(out)
	c.printStats(n.Len(), n.EdgeCount(), n.Rule(), cached)
	return nil
}

func (c *CLI) renderArtifact(cmd *cobra.Command, n *network.Network, opts *renderOpts) ([]byte, error) {
	dot := nodelink.ToDOT(n, nodelink.Options{
		OnColor:  opts.onColor,
		OffColor: opts.offColor,
		Detailed: opts.detailed,
	})
	if opts.format == formatDOT {
		return []byte(dot), nil
	}

	spin := newSpinner(cmd.Context(), c.errOut, "Rendering SVG...")
	spin.Start()
	defer spin.Stop()
	svg, err := nodelink.RenderSVG(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
	}
	return svg, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
