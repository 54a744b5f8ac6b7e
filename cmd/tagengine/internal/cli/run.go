package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "load a scenario and report its tag/entity/condensation counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, s, err := loadContext(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tags: %d\n", ctx.NumTags())
			fmt.Fprintf(cmd.OutOrStdout(), "entities: %d\n", ctx.NumEntities())
			fmt.Fprintf(cmd.OutOrStdout(), "queries defined: %d\n", len(s.Queries))
			fmt.Fprintf(cmd.OutOrStdout(), "dirty: %v\n", ctx.IsDirty())
			return nil
		},
	}
	return cmd
}
