package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <scenario.yaml>",
		Short: "print the condensation's meta-nodes, their tags, and their edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := loadContext(args[0])
			if err != nil {
				return err
			}
			report := ctx.Inspect()
			fmt.Fprintf(cmd.OutOrStdout(), "dirty: %v\n", report.Dirty)
			for i, m := range report.MetaNodes {
				fmt.Fprintf(cmd.OutOrStdout(), "meta-node %d: tags=%v sink=%v children=%v parents=%v\n",
					i, m.Tags, m.Sink, m.Children, m.Parents)
			}
			return nil
		},
	}
	return cmd
}
