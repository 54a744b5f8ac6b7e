package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <scenario.yaml> <query-name>",
		Short: "run one named query from a scenario and print matching entity ids",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, s, err := loadContext(args[0])
			if err != nil {
				return err
			}
			nq, err := findQuery(s, args[1])
			if err != nil {
				return err
			}
			clause, err := nq.Clause.ToClause()
			if err != nil {
				return err
			}
			got, err := ctx.DoQuery(clause)
			if err != nil {
				return err
			}
			sort.Ints(got)
			for _, id := range got {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	return cmd
}
