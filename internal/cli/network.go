package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boolnet/pkg/errors"
	"github.com/matzehuels/boolnet/pkg/network"
	"github.com/matzehuels/boolnet/pkg/render"
	"github.com/matzehuels/boolnet/pkg/session"
)

// displayOpts holds the token flags shared by commands that print states.
type displayOpts struct {
	on, off string
	width   int
}

func (o *displayOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.on, "on", "", "token printed for on nodes (default from config)")
	cmd.Flags().StringVar(&o.off, "off", "", "token printed for off nodes (default from config)")
	cmd.Flags().IntVar(&o.width, "width", 0, "wrap the state line every N nodes (0 = no wrap)")
}

// resolve fills unset flags from the config.
func (o *displayOpts) resolve(cmd *cobra.Command, c *CLI) {
	d := c.cfg.Display
	stringDefault(cmd, "on", &o.on, d.On)
	stringDefault(cmd, "off", &o.off, d.Off)
	intDefault(cmd, "width", &o.width, d.Width)
}

func (o *displayOpts) line(n *network.Network) string {
	return render.Grid(n, o.on, o.off, o.width)
}

func intDefault(cmd *cobra.Command, name string, v *int, def int) {
	if !cmd.Flags().Changed(name) {
		*v = def
	}
}

func stringDefault(cmd *cobra.Command, name string, v *string, def string) {
	if !cmd.Flags().Changed(name) {
		*v = def
	}
}

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output         string
	nodes          int
	minConnections int
	maxConnections int
	seed           uint64
	save           bool
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random network",
		Long: `Generate a random network. Every node gets a random initial state and
exactly max-connections neighbors drawn without replacement; a node may read
itself. The network uses the default rule (xor).

Without --output the network is written to stdout in the text format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.cfg.Network
			intDefault(cmd, "nodes", &opts.nodes, cfg.Nodes)
			intDefault(cmd, "min-connections", &opts.minConnections, cfg.MinConnections)
			intDefault(cmd, "max-connections", &opts.maxConnections, cfg.MaxConnections)
			if !cmd.Flags().Changed("seed") {
				opts.seed = cfg.Seed
			}
			return c.runGenerate(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVarP(&opts.nodes, "nodes", "n", 0, "number of nodes (default from config)")
	cmd.Flags().IntVar(&opts.minConnections, "min-connections", 0, "minimum neighbors per node (validated, not used for sampling)")
	cmd.Flags().IntVar(&opts.maxConnections, "max-connections", 0, "neighbors per node")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 = random)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "also store the network as a session")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	g, seed := c.newGenerator(opts.seed)
	s := c.newSession()
	prog := newProgress(logger)
	if err := s.Generate(ctx, g, opts.nodes, opts.minConnections, opts.maxConnections); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d nodes", opts.nodes))
	logger.Debug("generator", "seed", seed)

	if opts.save {
		if err := c.saveSession(cmd, s); err != nil {
			return err
		}
	}

	if opts.output == "" {
		text, err := s.Text()
		if err != nil {
			return err
		}
		return c.writeRaw(text)
	}

	if err := s.Export(opts.output); err != nil {
		return err
	}
	n, _ := s.Network()
	c.printSuccess("Generated network")
	c.printFile(opts.output)
	c.printStats(n.Len(), n.EdgeCount(), n.Rule(), false)
	return nil
}

func (c *CLI) saveSession(cmd *cobra.Command, s *session.Session) error {
	store, err := c.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()
	if err := session.Save(cmd.Context(), store, s); err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Info("Saved session", "id", s.ID())
	return nil
}

func (c *CLI) showCommand() *cobra.Command {
	var (
		display    displayOpts
		statesOnly bool
	)

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print a network and its state line",
		Long: `Print a network in the text format followed by its state line, one
token per node. The file defaults to ` + defaultNetworkPath + `; use "-" for stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			display.resolve(cmd, c)
			s, err := c.load(cmd.Context(), inputPath(args))
			if err != nil {
				return err
			}
			n, err := s.Network()
			if err != nil {
				return err
			}
			if !statesOnly {
				text, _ := s.Text()
				if err := c.writeRaw(text); err != nil {
					return err
				}
			}
			c.println(display.line(n))
			return nil
		},
	}

	display.register(cmd)
	cmd.Flags().BoolVar(&statesOnly, "states", false, "print only the state line")
	return cmd
}

// stepOpts holds the command-line flags for the step command.
type stepOpts struct {
	generations int
	output      string
	inPlace     bool
}

func (c *CLI) stepCommand() *cobra.Command {
	opts := stepOpts{generations: 1}

	cmd := &cobra.Command{
		Use:   "step [file]",
		Short: "Advance a network and write the result",
		Long: `Advance a network by N synchronous generations and write the resulting
network in the text format to stdout, --output, or back to the input file
with --in-place.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := inputPath(args)
			if opts.inPlace {
				if opts.output != "" {
					return errors.New(errors.ErrCodeInvalidInput, "--in-place and --output are exclusive")
				}
				if path == stdinPath {
					return errors.New(errors.ErrCodeInvalidInput, "--in-place needs a file")
				}
				opts.output = path
			}
			return c.runStep(cmd, path, &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.generations, "generations", "n", opts.generations, "number of generations")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVarP(&opts.inPlace, "in-place", "i", false, "overwrite the input file")
	return cmd
}

func (c *CLI) runStep(cmd *cobra.Command, path string, opts *stepOpts) error {
	ctx := cmd.Context()
	s, err := c.load(ctx, path)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	if err := s.Step(ctx, opts.generations); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Stepped %d generations", opts.generations))

	if opts.output == "" {
		text, err := s.Text()
		if err != nil {
			return err
		}
		return c.writeRaw(text)
	}
	if err := s.Export(opts.output); err != nil {
		return err
	}
	c.printSuccess("Generation %d", s.Generation())
	c.printFile(opts.output)
	return nil
}

func (c *CLI) runCommand() *cobra.Command {
	var (
		display     displayOpts
		generations int
		numbered    bool
	)

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Print the state line for each generation",
		Long: `Print the state line of a network before stepping and after each of N
generations, one line per generation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			display.resolve(cmd, c)
			if generations < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "generations %d is negative", generations)
			}
			ctx := cmd.Context()
			s, err := c.load(ctx, inputPath(args))
			if err != nil {
				return err
			}
			n, err := s.Network()
			if err != nil {
				return err
			}

			emit := func(gen int, n *network.Network) error {
				line := display.line(n)
				if numbered {
					line = fmt.Sprintf("%6d  %s", gen, line)
				}
				c.println(line)
				return nil
			}

			prog := newProgress(loggerFromContext(ctx))
			_ = emit(0, n)
			if err := c.newStepper().Run(ctx, n, generations, emit); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Ran %d generations", generations))
			return nil
		},
	}

	display.register(cmd)
	cmd.Flags().IntVarP(&generations, "generations", "n", 10, "number of generations")
	cmd.Flags().BoolVar(&numbered, "numbered", false, "prefix each line with its generation")
	return cmd
}
