package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch new draws and merge them into the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := rootOpts.app.Controller.Sync(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(rootOpts, cmd.OutOrStdout(), report, func(w io.Writer) {
				if report.FetchedCount == 0 {
					fmt.Fprintf(w, "Archive up to date (latest concourse %d)\n", report.LatestSequenceNumber)
					return
				}
				fmt.Fprintf(w, "Merged %d draw(s), rejected %d, latest concourse %d (%v)\n",
					report.FetchedCount, report.RejectedCount, report.LatestSequenceNumber, report.Duration)
			})
		},
	}
}

// NewLatestCommand creates the latest command.
func NewLatestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Print the most recent archived draw",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recent := rootOpts.app.Archive.Recent(1)
			if len(recent) == 0 {
				return fmt.Errorf("archive is empty, run sync first")
			}
			draw := recent[0]
			return writeOutput(rootOpts, cmd.OutOrStdout(), draw, func(w io.Writer) {
				fmt.Fprintf(w, "Concourse %d (%s): %s\n", draw.SequenceNumber, draw.OccurredOn, formatNumbers(draw.Numbers))
			})
		},
	}
}
