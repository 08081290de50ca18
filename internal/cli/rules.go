package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) rulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the available update rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def := c.reg.DefaultName()
			for _, name := range c.reg.Names() {
				if name == def {
					c.println(name + " " + StyleDim.Render("(default)"))
					continue
				}
				c.println(name)
			}
			return nil
		},
	}
}
