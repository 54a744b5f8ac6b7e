package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dymk/tagengine/pkg/tagengine"
)

func newQueryBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query-batch <scenario.yaml>",
		Short: "run every named query in a scenario concurrently and print each result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, s, err := loadContext(args[0])
			if err != nil {
				return err
			}

			results := make([][]tagengine.ID, len(s.Queries))
			var eg errgroup.Group
			for i := range s.Queries {
				i := i
				eg.Go(func() error {
					clause, err := s.Queries[i].Clause.ToClause()
					if err != nil {
						return fmt.Errorf("query %q: %w", s.Queries[i].Name, err)
					}
					got, err := ctx.DoQuery(clause)
					if err != nil {
						return fmt.Errorf("query %q: %w", s.Queries[i].Name, err)
					}
					sort.Ints(got)
					results[i] = got
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			for i, q := range s.Queries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", q.Name, results[i])
			}
			return nil
		},
	}
	return cmd
}
