package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boolnet/pkg/session"
)

// sessionCommand creates the stored session management command.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage stored sessions",
		Long: `Manage networks kept in the session store. The backend is chosen by the
store section of the config (file by default).`,
	}

	cmd.AddCommand(c.sessionListCommand())
	cmd.AddCommand(c.sessionSaveCommand())
	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionStepCommand())
	cmd.AddCommand(c.sessionDeleteCommand())

	return cmd
}

func (c *CLI) withStore(cmd *cobra.Command, fn func(session.Store) error) error {
	store, err := c.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) sessionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd, func(store session.Store) error {
				ids, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					c.printInfo("No sessions")
					return nil
				}
				for _, id := range ids {
					c.println(id)
				}
				return nil
			})
		},
	}
}

func (c *CLI) sessionSaveCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Store a network file as a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []session.Option
			if id != "" {
				opts = append(opts, session.WithID(id))
			}
			s := c.newSession(opts...)
			path := inputPath(args)
			var err error
			if path == stdinPath {
				err = s.Load(cmd.Context(), c.in, "stdin")
			} else {
				err = s.LoadFile(cmd.Context(), path)
			}
			if err != nil {
				return err
			}

			return c.withStore(cmd, func(store session.Store) error {
				if err := session.Save(cmd.Context(), store, s); err != nil {
					return err
				}
				c.println(s.ID())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "session id (default a new UUID)")
	return cmd
}

func (c *CLI) sessionShowCommand() *cobra.Command {
	var (
		display displayOpts
		text    bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			display.resolve(cmd, c)
			return c.withStore(cmd, func(store session.Store) error {
				s, err := session.Open(cmd.Context(), store, c.reg, args[0])
				if err != nil {
					return err
				}
				if text {
					data, err := s.Text()
					if err != nil {
						return err
					}
					return c.writeRaw(data)
				}

				n, err := s.Network()
				if err != nil {
					return err
				}
				c.printKeyValue("id", s.ID())
				c.printKeyValue("rule", n.Rule())
				c.printKeyValue("nodes", fmt.Sprint(n.Len()))
				c.printKeyValue("edges", fmt.Sprint(n.EdgeCount()))
				c.printKeyValue("generation", fmt.Sprint(s.Generation()))
				if rec, err := s.Record(); err == nil && !rec.UpdatedAt.IsZero() {
					c.printKeyValue("updated", rec.UpdatedAt.Format(time.RFC3339))
				}
				c.println(display.line(n))
				return nil
			})
		},
	}

	cmd.ValidArgsFunction = c.completeSessionID
	display.register(cmd)
	cmd.Flags().BoolVar(&text, "text", false, "print the network in the text format")
	return cmd
}

func (c *CLI) sessionStepCommand() *cobra.Command {
	generations := 1

	cmd := &cobra.Command{
		Use:   "step <id>",
		Short: "Advance a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(cmd, func(store session.Store) error {
				s, err := session.Open(ctx, store, c.reg, args[0], session.WithStepper(c.newStepper()))
				if err != nil {
					return err
				}
				prog := newProgress(loggerFromContext(ctx))
				if err := s.Step(ctx, generations); err != nil {
					return err
				}
				if err := session.Save(ctx, store, s); err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Stepped %d generations", generations))
				c.printSuccess("Session %s at generation %d", s.ID(), s.Generation())
				return nil
			})
		},
	}

	cmd.ValidArgsFunction = c.completeSessionID
	cmd.Flags().IntVarP(&generations, "generations", "n", generations, "number of generations")
	return cmd
}

func (c *CLI) sessionDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store session.Store) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				c.printSuccess("Deleted session %s", args[0])
				return nil
			})
		},
	}
	cmd.ValidArgsFunction = c.completeSessionID
	return cmd
}
