package cli

import (
	"context"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boolnet/pkg/buildinfo"
	"github.com/matzehuels/boolnet/pkg/cache"
	"github.com/matzehuels/boolnet/pkg/config"
	"github.com/matzehuels/boolnet/pkg/errors"
	"github.com/matzehuels/boolnet/pkg/network"
	"github.com/matzehuels/boolnet/pkg/observability"
	"github.com/matzehuels/boolnet/pkg/rule"
	"github.com/matzehuels/boolnet/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "boolnet"

	// defaultNetworkPath is read by commands that take an optional file.
	defaultNetworkPath = "networks/basic.txt"

	// stdinPath selects standard input instead of a file.
	stdinPath = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	cfg        *config.Config
	reg        *rule.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		cfg:    config.Default(),
		reg:    rule.Builtin(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetIO replaces standard input, output and the progress stream.
func (c *CLI) SetIO(in io.Reader, out, errOut io.Writer) {
	c.in, c.out, c.errOut = in, out, errOut
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Boolnet simulates discrete-time Boolean networks",
		Long: `Boolnet generates, loads and steps synchronous Boolean networks. Every node
holds one bit and reads a list of neighbor nodes; each generation all nodes
update at once by folding their neighbors' previous states with a rule
(xor, and, or).`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml or .yaml; default $XDG_CONFIG_HOME/boolnet/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.interactiveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.rulesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration, applies its log level, and binds the
// instrumentation hooks to the logger.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.Logger.SetLevel(level)
	}

	hooks := loggingHooks{logger: c.Logger}
	observability.SetSimulationHooks(hooks)
	observability.SetStoreHooks(hooks)
	observability.SetCacheHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Factories
// =============================================================================

func (c *CLI) newStepper() *network.Stepper {
	return network.NewStepper(network.WithWorkers(c.cfg.Step.Workers))
}

func (c *CLI) newSession(opts ...session.Option) *session.Session {
	return session.New(c.reg, append([]session.Option{session.WithStepper(c.newStepper())}, opts...)...)
}

// newGenerator seeds from seed, or from a fresh random seed when it is zero.
func (c *CLI) newGenerator(seed uint64) (*network.Generator, uint64) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return network.NewGenerator(c.reg, seed), seed
}

// load reads a network from path, or stdin for "-", into a new session.
func (c *CLI) load(ctx context.Context, path string) (*session.Session, error) {
	s := c.newSession()
	if path == stdinPath {
		if err := s.Load(ctx, c.in, "stdin"); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := s.LoadFile(ctx, path); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *CLI) openStore(ctx context.Context) (session.Store, error) {
	sc := c.cfg.Store
	switch sc.Backend {
	case config.BackendMemory:
		return session.NewMemoryStore(), nil
	case config.BackendRedis:
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     sc.RedisAddr,
			Password: sc.RedisPassword,
			DB:       sc.RedisDB,
			TTL:      sc.TTL,
		})
	default:
		return session.NewFileStore(sc.Dir)
	}
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG standard
// location (~/.cache/boolnet/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "get home dir")
	}
	return filepath.Join(home, ".cache", appName), nil
}

// inputPath returns the single optional file argument or the default path.
func inputPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultNetworkPath
}
