package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/services"
	"github.com/spf13/cobra"
)

type checkOutput struct {
	Selection models.Selection     `json:"selection"`
	Summary   models.ScoreSummary  `json:"summary"`
	Results   []models.ScoreResult `json:"results"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var onlyPrizes bool

	cmd := &cobra.Command{
		Use:   "check <numbers...>",
		Short: "Score a selection against every archived draw",
		Long: `Score a selection against every archived draw.

Numbers may be given as separate arguments or as free text such as
"01,02,03 ... 15". Out-of-range values and duplicates are ignored.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selection := models.ParseSelection(strings.Join(args, " "))
			if len(selection) == 0 {
				return fmt.Errorf("no numbers between %d and %d found", models.MinNumber, models.MaxNumber)
			}

			results, err := services.Score(selection, rootOpts.app.Archive.All())
			if err != nil {
				return err
			}
			summary := services.Summarize(results)
			if onlyPrizes {
				results = prizeResults(results)
			}

			out := checkOutput{Selection: selection, Summary: summary, Results: results}
			return writeOutput(rootOpts, cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintf(w, "Selection: %s\n", formatNumbers(selection))
				fmt.Fprintf(w, "Draws checked: %d, prizes: %d (15: %d, 14: %d, 11-13: %d)\n",
					summary.TotalDraws, summary.PrizeCount(), summary.JackpotCount, summary.SecondTierCount, summary.ThirdTierCount)
				for _, result := range results {
					fmt.Fprintf(w, "  #%d %s  %2d hits  %s\n",
						result.Draw.SequenceNumber, result.Draw.OccurredOn, result.HitCount, result.Tier)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&onlyPrizes, "prizes-only", false, "list only draws that reach a prize tier")
	return cmd
}

func prizeResults(results []models.ScoreResult) []models.ScoreResult {
	filtered := make([]models.ScoreResult, 0, len(results))
	for _, result := range results {
		if result.Tier != models.NoTier {
			filtered = append(filtered, result)
		}
	}
	return filtered
}
