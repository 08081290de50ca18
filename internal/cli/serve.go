package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/boolnet/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session HTTP API",
		Long: `Serve the session HTTP API. Sessions are kept in the configured store
(memory, file or redis) so several instances can share a redis store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stringDefault(cmd, "addr", &addr, c.cfg.Server.Addr)
			ctx := cmd.Context()

			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(server.Config{
				Registry: c.reg,
				Store:    store,
				Stepper:  c.newStepper(),
				Logger:   loggerFromContext(ctx),
				Seed:     c.cfg.Network.Seed,
			})
			loggerFromContext(ctx).Info("starting server", "store", c.cfg.Store.Backend)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
