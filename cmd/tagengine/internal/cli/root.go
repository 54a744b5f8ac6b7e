// Package cli assembles the tagengine command-line tool: a thin cobra
// front end over pkg/tagengine for driving a scenario file, running one
// query, running every query in a scenario concurrently, or inspecting
// the condensation, without writing a Go program against the API.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Root builds the tagengine command tree.
func Root() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "tagengine",
		Short:         "drive an in-memory tag-query engine from a scenario file",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging of condensation rebuilds")

	root.AddCommand(newRunCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newQueryBatchCmd())
	root.AddCommand(newInspectCmd())
	return root
}

const rootLong = `tagengine loads a YAML scenario (tags, implications, entity tag
assignments, and named queries) and runs commands against the resulting
in-memory engine.

A scenario file looks like:

	tags: [1, 2, 3]
	entities: [10, 11]
	implications:
	  - {from: 1, to: 2}
	tag_assignments:
	  - {entity: 10, tag: 1}
	queries:
	  - name: only-2
	    clause: {op: literal, tag: 2}
`
