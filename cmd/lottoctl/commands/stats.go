package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show hot and cold numbers across the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := rootOpts.app.Suggestions.Stats()
			return writeOutput(rootOpts, cmd.OutOrStdout(), stats, func(w io.Writer) {
				fmt.Fprintf(w, "Draws: %d\n", stats.Total)
				fmt.Fprintf(w, "Hot:   %s\n", formatNumbers(stats.Hot))
				fmt.Fprintf(w, "Cold:  %s\n", formatNumbers(stats.Cold))
			})
		},
	}
}
